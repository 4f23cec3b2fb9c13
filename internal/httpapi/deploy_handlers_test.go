package httpapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func deployStatusViaAPI(t *testing.T, harness *apiHarness, cookies []*http.Cookie) map[string]any {
	t.Helper()
	recorder := harness.performJSON(t, http.MethodGet, "/api/deploy", nil, cookies)
	require.Equal(t, http.StatusOK, recorder.Code)
	return decodeJSONBody(t, recorder)
}

func TestDeployStatusStartsIdle(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	currentStatus := deployStatusViaAPI(t, harness, cookies)
	require.Equal(t, "idle", currentStatus["deployState"])
	require.Equal(t, "idle", currentStatus["domainState"])
	require.Equal(t, "idle", currentStatus["subdomainState"])
	require.Empty(t, currentStatus["liveUrl"])

	integrations, _ := currentStatus["integrations"].([]any)
	require.Len(t, integrations, 3)
}

func TestTriggerDeployLifecycle(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	triggerRecorder := harness.performJSON(t, http.MethodPost, "/api/deploy/run", nil, cookies)
	require.Equal(t, http.StatusAccepted, triggerRecorder.Code)
	require.Equal(t, "pending", decodeJSONBody(t, triggerRecorder)["status"])

	require.Eventually(t, func() bool {
		return deployStatusViaAPI(t, harness, cookies)["deployState"] == "success"
	}, testCompletionWaitValue, testCompletionPollValue)

	finalStatus := deployStatusViaAPI(t, harness, cookies)
	require.Equal(t, "my-website.candlelight.app", finalStatus["liveUrl"])
}

func TestTriggerDeployWhilePendingConflicts(t *testing.T) {
	harness := newAPIHarness(t)
	harness.deploy.WithDelays(time.Minute, time.Minute, time.Minute)
	cookies := harness.signUpAccount(t)

	firstRecorder := harness.performJSON(t, http.MethodPost, "/api/deploy/run", nil, cookies)
	require.Equal(t, http.StatusAccepted, firstRecorder.Code)

	retriggerRecorder := harness.performJSON(t, http.MethodPost, "/api/deploy/run", nil, cookies)
	require.Equal(t, http.StatusConflict, retriggerRecorder.Code)
	require.Equal(t, "workflow already running", decodeJSONBody(t, retriggerRecorder)["error"])
}

func TestConnectDomainValidatesAndRuns(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	blankRecorder := harness.performJSON(t, http.MethodPost, "/api/deploy/domain", gin.H{"domain": " "}, cookies)
	require.Equal(t, http.StatusBadRequest, blankRecorder.Code)

	connectRecorder := harness.performJSON(t, http.MethodPost, "/api/deploy/domain", gin.H{"domain": "example.com"}, cookies)
	require.Equal(t, http.StatusAccepted, connectRecorder.Code)

	require.Eventually(t, func() bool {
		currentStatus := deployStatusViaAPI(t, harness, cookies)
		return currentStatus["domainState"] == "success" && currentStatus["domain"] == "example.com"
	}, testCompletionWaitValue, testCompletionPollValue)
}

func TestPublishSubdomainDerivesLiveURL(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	publishRecorder := harness.performJSON(t, http.MethodPost, "/api/deploy/subdomain", gin.H{"subdomain": "Sunrise-Bakery"}, cookies)
	require.Equal(t, http.StatusAccepted, publishRecorder.Code)

	require.Eventually(t, func() bool {
		currentStatus := deployStatusViaAPI(t, harness, cookies)
		return currentStatus["subdomainState"] == "success" &&
			currentStatus["liveUrl"] == "sunrise-bakery.candlelight.app"
	}, testCompletionWaitValue, testCompletionPollValue)
}

func TestToggleIntegrationFlipsFlag(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	toggleRecorder := harness.performJSON(t, http.MethodPost, "/api/deploy/integrations/Netlify/toggle", nil, cookies)
	require.Equal(t, http.StatusOK, toggleRecorder.Code)

	items, _ := decodeJSONBody(t, toggleRecorder)["items"].([]any)
	netlifyConnected := false
	for _, item := range items {
		integration, _ := item.(map[string]any)
		if integration["name"] == "Netlify" {
			netlifyConnected, _ = integration["connected"].(bool)
		}
	}
	require.True(t, netlifyConnected)

	unknownRecorder := harness.performJSON(t, http.MethodPost, "/api/deploy/integrations/Heroku/toggle", nil, cookies)
	require.Equal(t, http.StatusNotFound, unknownRecorder.Code)
}
