package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	testProjectTitleValue = "Foo"
	testAbsentIdentifier  = "no-such-id"
)

func createProjectViaAPI(t *testing.T, harness *apiHarness, cookies []*http.Cookie, title string) map[string]any {
	t.Helper()
	recorder := harness.performJSON(t, http.MethodPost, "/api/projects", gin.H{"title": title}, cookies)
	require.Equal(t, http.StatusCreated, recorder.Code)
	return decodeJSONBody(t, recorder)
}

func TestCreateAndListProjects(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	created := createProjectViaAPI(t, harness, cookies, testProjectTitleValue)
	require.Equal(t, testProjectTitleValue, created["title"])
	require.Equal(t, "Draft", created["status"])

	listRecorder := harness.performJSON(t, http.MethodGet, "/api/projects", nil, cookies)
	require.Equal(t, http.StatusOK, listRecorder.Code)
	items, ok := decodeJSONBody(t, listRecorder)["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestCreateProjectRejectsBlankTitle(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	recorder := harness.performJSON(t, http.MethodPost, "/api/projects", gin.H{"title": "   "}, cookies)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "missing required fields", decodeJSONBody(t, recorder)["error"])
}

func TestPublishProjectAssignsHostedURL(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	created := createProjectViaAPI(t, harness, cookies, testProjectTitleValue)
	projectID, _ := created["id"].(string)
	require.NotEmpty(t, projectID)

	publishRecorder := harness.performJSON(t, http.MethodPost, "/api/projects/"+projectID+"/publish", nil, cookies)
	require.Equal(t, http.StatusOK, publishRecorder.Code)
	published := decodeJSONBody(t, publishRecorder)
	require.Equal(t, "Published", published["status"])
	require.Equal(t, "foo.candlelight.app", published["url"])

	absentRecorder := harness.performJSON(t, http.MethodPost, "/api/projects/"+testAbsentIdentifier+"/publish", nil, cookies)
	require.Equal(t, http.StatusNotFound, absentRecorder.Code)
	require.Equal(t, "unknown item", decodeJSONBody(t, absentRecorder)["error"])
}

func TestDuplicateProjectReturnsFreshDraft(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	created := createProjectViaAPI(t, harness, cookies, testProjectTitleValue)
	projectID, _ := created["id"].(string)

	duplicateRecorder := harness.performJSON(t, http.MethodPost, "/api/projects/"+projectID+"/duplicate", nil, cookies)
	require.Equal(t, http.StatusCreated, duplicateRecorder.Code)
	duplicated := decodeJSONBody(t, duplicateRecorder)
	require.Equal(t, testProjectTitleValue+" (Copy)", duplicated["title"])
	require.NotEqual(t, projectID, duplicated["id"])
}

func TestUpdateAndDeleteProject(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	created := createProjectViaAPI(t, harness, cookies, testProjectTitleValue)
	projectID, _ := created["id"].(string)

	updateRecorder := harness.performJSON(t, http.MethodPatch, "/api/projects/"+projectID, gin.H{"title": "Renamed"}, cookies)
	require.Equal(t, http.StatusOK, updateRecorder.Code)
	require.Equal(t, "Renamed", decodeJSONBody(t, updateRecorder)["title"])

	absentRecorder := harness.performJSON(t, http.MethodPatch, "/api/projects/"+testAbsentIdentifier, gin.H{"title": "Renamed"}, cookies)
	require.Equal(t, http.StatusNotFound, absentRecorder.Code)

	deleteRecorder := harness.performJSON(t, http.MethodDelete, "/api/projects/"+projectID, nil, cookies)
	require.Equal(t, http.StatusOK, deleteRecorder.Code)

	listRecorder := harness.performJSON(t, http.MethodGet, "/api/projects", nil, cookies)
	items, _ := decodeJSONBody(t, listRecorder)["items"].([]any)
	require.Empty(t, items)
}

func TestListProjectsAppliesQueryFilter(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	createProjectViaAPI(t, harness, cookies, "Sunrise Bakery")
	createProjectViaAPI(t, harness, cookies, "Portfolio Refresh")

	filteredRecorder := harness.performJSON(t, http.MethodGet, "/api/projects?query=bakery", nil, cookies)
	require.Equal(t, http.StatusOK, filteredRecorder.Code)
	items, _ := decodeJSONBody(t, filteredRecorder)["items"].([]any)
	require.Len(t, items, 1)
}
