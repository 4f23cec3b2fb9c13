package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSignUpRequiresCaptchaBeforeProviderRuns(t *testing.T) {
	harness := newAPIHarness(t)

	recorder := harness.performJSON(t, http.MethodPost, "/api/auth/signup", gin.H{
		"email":    testAccountEmailValue,
		"password": testAccountPassword,
	}, nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "complete the captcha", decodeJSONBody(t, recorder)["error"])

	// The gate fired before the provider, so the email is still available.
	signUpRecorder := harness.performJSON(t, http.MethodPost, "/api/auth/signup", gin.H{
		"email":        testAccountEmailValue,
		"password":     testAccountPassword,
		"captchaToken": testCaptchaTokenValue,
	}, nil)
	require.Equal(t, http.StatusCreated, signUpRecorder.Code)
}

func TestSignUpEstablishesSessionCookie(t *testing.T) {
	harness := newAPIHarness(t)

	cookies := harness.signUpAccount(t)
	require.NotEmpty(t, cookies)

	meRecorder := harness.performJSON(t, http.MethodGet, "/api/me", nil, cookies)
	require.Equal(t, http.StatusOK, meRecorder.Code)
	decodedBody := decodeJSONBody(t, meRecorder)
	account, ok := decodedBody["account"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, testAccountEmailValue, account["email"])
	require.Equal(t, "jordan", account["displayName"])
}

func TestSignUpDuplicateEmailConflicts(t *testing.T) {
	harness := newAPIHarness(t)
	harness.signUpAccount(t)

	recorder := harness.performJSON(t, http.MethodPost, "/api/auth/signup", gin.H{
		"email":        testAccountEmailValue,
		"password":     testAccountPassword,
		"captchaToken": testCaptchaTokenValue,
	}, nil)
	require.Equal(t, http.StatusConflict, recorder.Code)
	require.Equal(t, "email already registered", decodeJSONBody(t, recorder)["error"])
}

func TestLogInCollapsesCredentialFailures(t *testing.T) {
	harness := newAPIHarness(t)
	harness.signUpAccount(t)

	wrongPasswordRecorder := harness.performJSON(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":        testAccountEmailValue,
		"password":     "wrong password",
		"captchaToken": testCaptchaTokenValue,
	}, nil)
	require.Equal(t, http.StatusUnauthorized, wrongPasswordRecorder.Code)
	require.Equal(t, "invalid email or password", decodeJSONBody(t, wrongPasswordRecorder)["error"])

	unknownEmailRecorder := harness.performJSON(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":        "stranger@example.com",
		"password":     testAccountPassword,
		"captchaToken": testCaptchaTokenValue,
	}, nil)
	require.Equal(t, http.StatusUnauthorized, unknownEmailRecorder.Code)
	require.Equal(t, "invalid email or password", decodeJSONBody(t, unknownEmailRecorder)["error"])
}

func TestLogInReturnsSessionForValidCredentials(t *testing.T) {
	harness := newAPIHarness(t)
	harness.signUpAccount(t)

	recorder := harness.performJSON(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":        testAccountEmailValue,
		"password":     testAccountPassword,
		"captchaToken": testCaptchaTokenValue,
	}, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	meRecorder := harness.performJSON(t, http.MethodGet, "/api/me", nil, recorder.Result().Cookies())
	require.Equal(t, http.StatusOK, meRecorder.Code)
}

func TestProtectedRoutesRejectAnonymousRequests(t *testing.T) {
	harness := newAPIHarness(t)

	for _, path := range []string{"/api/me", "/api/projects", "/api/deploy", "/api/settings/brand"} {
		recorder := harness.performJSON(t, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusUnauthorized, recorder.Code, path)
		require.Equal(t, "unauthorized", decodeJSONBody(t, recorder)["error"], path)
	}
}

func TestLogOutExpiresSession(t *testing.T) {
	harness := newAPIHarness(t)
	cookies := harness.signUpAccount(t)

	logOutRecorder := harness.performJSON(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, logOutRecorder.Code)

	meRecorder := harness.performJSON(t, http.MethodGet, "/api/me", nil, logOutRecorder.Result().Cookies())
	require.Equal(t, http.StatusUnauthorized, meRecorder.Code)
}
