package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func notificationStateViaAPI(t *testing.T, harness *apiHarness, cookies []*http.Cookie) map[string]any {
	t.Helper()
	recorder := harness.performJSON(t, http.MethodGet, "/api/notifications/state", nil, cookies)
	require.Equal(t, http.StatusOK, recorder.Code)
	return decodeJSONBody(t, recorder)
}

func TestNotificationStateStartsIdle(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	currentState := notificationStateViaAPI(t, harness, cookies)
	require.Equal(t, "idle", currentState["phase"])
	require.Equal(t, float64(0), currentState["queued"])
	require.NotContains(t, currentState, "content")
}

func TestNotificationStateShowsVisibleAndQueued(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	createProjectViaAPI(t, harness, cookies, "First Site")
	createProjectViaAPI(t, harness, cookies, "Second Site")

	currentState := notificationStateViaAPI(t, harness, cookies)
	require.Equal(t, "visible", currentState["phase"])
	require.Equal(t, float64(1), currentState["queued"])

	visibleNotification, _ := currentState["content"].(map[string]any)
	require.Equal(t, "Project Created", visibleNotification["title"])
	require.Equal(t, "success", visibleNotification["level"])
}

func TestDismissNotificationClosesVisible(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	createProjectViaAPI(t, harness, cookies, "First Site")

	dismissRecorder := harness.performJSON(t, http.MethodPost, "/api/notifications/dismiss", nil, cookies)
	require.Equal(t, http.StatusOK, dismissRecorder.Code)
	require.Equal(t, "ok", decodeJSONBody(t, dismissRecorder)["status"])

	currentState := notificationStateViaAPI(t, harness, cookies)
	require.Equal(t, "closing", currentState["phase"])
}
