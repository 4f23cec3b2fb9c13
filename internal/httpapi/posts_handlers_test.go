package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	testPostTitleValue   = "Launching Our Spring Menu"
	testPostExcerptValue = "A first look at the new seasonal dishes."
	testAbsentPostID     = "no-such-post"
)

func createPostViaAPI(t *testing.T, harness *apiHarness, cookies []*http.Cookie, title string) map[string]any {
	t.Helper()
	recorder := harness.performJSON(t, http.MethodPost, "/api/posts", gin.H{
		"title":   title,
		"excerpt": testPostExcerptValue,
		"content": "Full article body.",
	}, cookies)
	require.Equal(t, http.StatusCreated, recorder.Code)
	return decodeJSONBody(t, recorder)
}

func TestCreatePostAndList(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	createdPost := createPostViaAPI(t, harness, cookies, testPostTitleValue)
	require.Equal(t, testPostTitleValue, createdPost["title"])
	require.Equal(t, "Draft", createdPost["status"])
	require.Nil(t, createdPost["publishDate"])

	listRecorder := harness.performJSON(t, http.MethodGet, "/api/posts", nil, cookies)
	require.Equal(t, http.StatusOK, listRecorder.Code)
	items, _ := decodeJSONBody(t, listRecorder)["items"].([]any)
	require.Len(t, items, 1)
}

func TestCreatePostRejectsBlankTitle(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	recorder := harness.performJSON(t, http.MethodPost, "/api/posts", gin.H{
		"title":   "   ",
		"excerpt": testPostExcerptValue,
	}, cookies)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "missing required fields", decodeJSONBody(t, recorder)["error"])
}

func TestPublishPostStampsDate(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)
	createdPost := createPostViaAPI(t, harness, cookies, testPostTitleValue)

	publishRecorder := harness.performJSON(t, http.MethodPost, "/api/posts/"+createdPost["id"].(string)+"/publish", nil, cookies)
	require.Equal(t, http.StatusOK, publishRecorder.Code)

	publishedPost := decodeJSONBody(t, publishRecorder)
	require.Equal(t, "Published", publishedPost["status"])
	publishDate, _ := publishedPost["publishDate"].(string)
	require.NotEmpty(t, publishDate)
}

func TestPublishAbsentPostNotFound(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	recorder := harness.performJSON(t, http.MethodPost, "/api/posts/"+testAbsentPostID+"/publish", nil, cookies)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "unknown item", decodeJSONBody(t, recorder)["error"])
}

func TestUpdateAndDeletePost(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)
	createdPost := createPostViaAPI(t, harness, cookies, testPostTitleValue)
	postPath := "/api/posts/" + createdPost["id"].(string)

	renamedTitle := "Spring Menu Revealed"
	updateRecorder := harness.performJSON(t, http.MethodPatch, postPath, gin.H{"title": renamedTitle}, cookies)
	require.Equal(t, http.StatusOK, updateRecorder.Code)
	updatedPost := decodeJSONBody(t, updateRecorder)
	require.Equal(t, renamedTitle, updatedPost["title"])
	require.Equal(t, testPostExcerptValue, updatedPost["excerpt"])

	absentRecorder := harness.performJSON(t, http.MethodPatch, "/api/posts/"+testAbsentPostID, gin.H{"title": renamedTitle}, cookies)
	require.Equal(t, http.StatusNotFound, absentRecorder.Code)

	deleteRecorder := harness.performJSON(t, http.MethodDelete, postPath, nil, cookies)
	require.Equal(t, http.StatusOK, deleteRecorder.Code)

	listRecorder := harness.performJSON(t, http.MethodGet, "/api/posts", nil, cookies)
	items, _ := decodeJSONBody(t, listRecorder)["items"].([]any)
	require.Empty(t, items)
}
