// Package httpapi exposes the dashboard's JSON API over gin. Every data
// route is owner scoped: the authenticated account id keys all persisted
// reads and writes.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/identity"
)

const (
	sessionCookieName        = "candlelight_session"
	sessionValueToken        = "token"
	sessionMaxAgeSeconds     = 86400
	contextKeyCurrentAccount = "httpapi_current_account"
	authErrorUnauthorized    = "unauthorized"
	logEventLoadSession      = "load_session"
	logEventSaveSession      = "save_session"
)

// AuthManager resolves the authenticated account behind a request and
// manages the session cookie that carries the signed token.
type AuthManager struct {
	cookieStore *sessions.CookieStore
	tokenIssuer *identity.TokenIssuer
	provider    identity.Provider
	logger      *zap.Logger
}

// NewAuthManager constructs an AuthManager.
func NewAuthManager(sessionSecret string, tokenIssuer *identity.TokenIssuer, provider identity.Provider, logger *zap.Logger) *AuthManager {
	cookieStore := sessions.NewCookieStore([]byte(sessionSecret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &AuthManager{
		cookieStore: cookieStore,
		tokenIssuer: tokenIssuer,
		provider:    provider,
		logger:      logger,
	}
}

// Establish issues a token for the account and stores it in the session
// cookie.
func (authManager *AuthManager) Establish(ginContext *gin.Context, account identity.Account) error {
	signedToken, issueErr := authManager.tokenIssuer.Issue(account.ID, account.Email)
	if issueErr != nil {
		return issueErr
	}
	session, _ := authManager.cookieStore.Get(ginContext.Request, sessionCookieName)
	session.Values[sessionValueToken] = signedToken
	if saveErr := session.Save(ginContext.Request, ginContext.Writer); saveErr != nil {
		authManager.logger.Warn(logEventSaveSession, zap.Error(saveErr))
		return saveErr
	}
	return nil
}

// Clear expires the session cookie.
func (authManager *AuthManager) Clear(ginContext *gin.Context) {
	session, _ := authManager.cookieStore.Get(ginContext.Request, sessionCookieName)
	session.Options.MaxAge = -1
	delete(session.Values, sessionValueToken)
	if saveErr := session.Save(ginContext.Request, ginContext.Writer); saveErr != nil {
		authManager.logger.Warn(logEventSaveSession, zap.Error(saveErr))
	}
}

// RequireAuthenticatedJSON enforces authentication for JSON API routes.
func (authManager *AuthManager) RequireAuthenticatedJSON() gin.HandlerFunc {
	return func(ginContext *gin.Context) {
		if _, ok := authManager.ensureAccount(ginContext); !ok {
			ginContext.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
			return
		}
		ginContext.Next()
	}
}

// CurrentAccount returns the authenticated account for the request.
func (authManager *AuthManager) CurrentAccount(ginContext *gin.Context) (identity.Account, bool) {
	return authManager.ensureAccount(ginContext)
}

// AccountFromContext loads the resolved account from the request context.
func AccountFromContext(ginContext *gin.Context) (identity.Account, bool) {
	value, exists := ginContext.Get(contextKeyCurrentAccount)
	if !exists {
		return identity.Account{}, false
	}
	account, ok := value.(identity.Account)
	return account, ok
}

func (authManager *AuthManager) ensureAccount(ginContext *gin.Context) (identity.Account, bool) {
	if account, exists := AccountFromContext(ginContext); exists {
		return account, true
	}

	session, sessionErr := authManager.cookieStore.Get(ginContext.Request, sessionCookieName)
	if sessionErr != nil {
		authManager.logger.Warn(logEventLoadSession, zap.Error(sessionErr))
		return identity.Account{}, false
	}
	signedToken, _ := session.Values[sessionValueToken].(string)
	if signedToken == "" {
		return identity.Account{}, false
	}

	sessionClaims, validateErr := authManager.tokenIssuer.Validate(signedToken)
	if validateErr != nil {
		authManager.logger.Warn(logEventLoadSession, zap.Error(validateErr))
		return identity.Account{}, false
	}

	account, lookupErr := authManager.provider.AccountByID(ginContext.Request.Context(), sessionClaims.AccountID)
	if lookupErr != nil {
		authManager.logger.Warn(logEventLoadSession, zap.Error(lookupErr))
		return identity.Account{}, false
	}

	ginContext.Set(contextKeyCurrentAccount, account)
	return account, true
}
