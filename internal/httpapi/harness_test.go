package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/CandlelightHQ/candlelight_svc/internal/assistant"
	"github.com/CandlelightHQ/candlelight_svc/internal/builder"
	"github.com/CandlelightHQ/candlelight_svc/internal/collection"
	"github.com/CandlelightHQ/candlelight_svc/internal/httpapi"
	"github.com/CandlelightHQ/candlelight_svc/internal/identity"
	"github.com/CandlelightHQ/candlelight_svc/internal/notify"
	"github.com/CandlelightHQ/candlelight_svc/internal/storage"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
	"github.com/CandlelightHQ/candlelight_svc/internal/testutil"
	"github.com/CandlelightHQ/candlelight_svc/internal/workflow"
)

const (
	testSessionSecretValue  = "test-session-secret"
	testSigningKeyValue     = "test-signing-key"
	testAccountEmailValue   = "jordan@example.com"
	testAccountPassword     = "correct horse battery staple"
	testCaptchaTokenValue   = "captcha-token"
	testSimulatedDelayValue = 5 * time.Millisecond
	testCompletionWaitValue = 2 * time.Second
	testCompletionPollValue = 5 * time.Millisecond
)

type apiHarness struct {
	router       *gin.Engine
	notifyCenter *notify.Center
	siteBuilder  *builder.Service
	deploy       *workflow.Deploy
	assistantLog *assistant.Log
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqliteDatabase := testutil.NewSQLiteTestDatabase(t)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(t, openErr)
	database = testutil.ConfigureDatabaseLogger(t, database)
	require.NoError(t, storage.AutoMigrate(database))

	logger := zap.NewNop()
	persistedStore := store.NewGormStore(database)
	notifyCenter := notify.NewCenter().WithDurations(time.Minute, time.Minute)
	t.Cleanup(notifyCenter.Close)

	provider := identity.NewLocalProvider(database, logger).WithBcryptCost(bcrypt.MinCost)
	tokenIssuer, issuerErr := identity.NewTokenIssuer(testSigningKeyValue)
	require.NoError(t, issuerErr)
	authManager := httpapi.NewAuthManager(testSessionSecretValue, tokenIssuer, provider, logger)

	siteBuilder := builder.NewService(persistedStore, notifyCenter, logger).
		WithGenerateDelay(testSimulatedDelayValue)
	deployService := workflow.NewDeploy(persistedStore, notifyCenter, logger).
		WithDelays(testSimulatedDelayValue, testSimulatedDelayValue, testSimulatedDelayValue)
	assistantLog := assistant.NewLog(persistedStore, logger).WithReplyDelay(testSimulatedDelayValue)

	handlers, handlersErr := httpapi.NewHandlers(httpapi.Config{
		AuthManager:     authManager,
		IdentityService: provider,
		Projects:        collection.NewProjects(persistedStore, notifyCenter, logger),
		Posts:           collection.NewPosts(persistedStore, notifyCenter, logger),
		Team:            collection.NewTeam(persistedStore, notifyCenter, logger),
		Billing:         collection.NewBilling(persistedStore, notifyCenter, logger),
		Assistant:       assistantLog,
		Builder:         siteBuilder,
		Deploy:          deployService,
		Store:           persistedStore,
		NotifyCenter:    notifyCenter,
		Logger:          logger,
	})
	require.NoError(t, handlersErr)

	router := gin.New()
	handlers.RegisterRoutes(router)

	return &apiHarness{
		router:       router,
		notifyCenter: notifyCenter,
		siteBuilder:  siteBuilder,
		deploy:       deployService,
		assistantLog: assistantLog,
	}
}

func (harness *apiHarness) performJSON(t *testing.T, method string, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var requestBody *bytes.Buffer
	if body != nil {
		encodedBody, marshalErr := json.Marshal(body)
		require.NoError(t, marshalErr)
		requestBody = bytes.NewBuffer(encodedBody)
	} else {
		requestBody = bytes.NewBuffer(nil)
	}

	request := httptest.NewRequest(method, path, requestBody)
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	harness.router.ServeHTTP(recorder, request)
	return recorder
}

// signUpAccount registers a fresh account and returns the session cookies.
func (harness *apiHarness) signUpAccount(t *testing.T) []*http.Cookie {
	t.Helper()

	recorder := harness.performJSON(t, http.MethodPost, "/api/auth/signup", gin.H{
		"email":        testAccountEmailValue,
		"password":     testAccountPassword,
		"captchaToken": testCaptchaTokenValue,
	}, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	return recorder.Result().Cookies()
}

func decodeJSONBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	decodedBody := map[string]any{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decodedBody))
	return decodedBody
}
