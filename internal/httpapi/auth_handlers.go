package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/identity"
)

const (
	logEventSignUp = "sign_up"
	logEventLogIn  = "log_in"
)

type signUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	DisplayName  string `json:"displayName"`
	CaptchaToken string `json:"captchaToken"`
}

type logInRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken"`
}

// SignUp registers a new account and establishes its session. The captcha
// gate runs before the identity provider is consulted.
func (handlers *Handlers) SignUp(ginContext *gin.Context) {
	var request signUpRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	if strings.TrimSpace(request.CaptchaToken) == "" {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueCaptchaRequired})
		return
	}

	account, signUpErr := handlers.identityService.SignUp(ginContext.Request.Context(), request.Email, request.Password, request.DisplayName)
	if errors.Is(signUpErr, identity.ErrEmailTaken) {
		ginContext.JSON(http.StatusConflict, gin.H{jsonKeyError: errorValueEmailTaken})
		return
	}
	if errors.Is(signUpErr, identity.ErrMissingEmail) || errors.Is(signUpErr, identity.ErrMissingPassword) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if signUpErr != nil {
		handlers.logger.Warn(logEventSignUp, zap.Error(signUpErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	if establishErr := handlers.authManager.Establish(ginContext, account); establishErr != nil {
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusCreated, gin.H{jsonKeyAccount: account})
}

// LogIn authenticates an account and establishes its session. Every
// credential failure collapses into one message so the response never
// reveals whether the email exists.
func (handlers *Handlers) LogIn(ginContext *gin.Context) {
	var request logInRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	if strings.TrimSpace(request.CaptchaToken) == "" {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueCaptchaRequired})
		return
	}

	account, signInErr := handlers.identityService.SignIn(ginContext.Request.Context(), request.Email, request.Password)
	if errors.Is(signInErr, identity.ErrInvalidCredentials) {
		ginContext.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueInvalidCredentials})
		return
	}
	if signInErr != nil {
		handlers.logger.Warn(logEventLogIn, zap.Error(signInErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	if establishErr := handlers.authManager.Establish(ginContext, account); establishErr != nil {
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyAccount: account})
}

// LogOut expires the session cookie.
func (handlers *Handlers) LogOut(ginContext *gin.Context) {
	handlers.authManager.Clear(ginContext)
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyStatus: statusValueOK})
}

// CurrentAccount returns the authenticated account.
func (handlers *Handlers) CurrentAccount(ginContext *gin.Context) {
	account, ok := handlers.authManager.CurrentAccount(ginContext)
	if !ok {
		ginContext.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyAccount: account})
}
