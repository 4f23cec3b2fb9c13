package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/workflow"
)

const (
	logEventDeploy = "deploy"
)

type connectDomainRequest struct {
	Domain string `json:"domain"`
}

type publishSubdomainRequest struct {
	Subdomain string `json:"subdomain"`
}

// DeployStatus returns the aggregate deploy view: workflow states, domain
// and subdomain records, integrations, and the live URL once published.
func (handlers *Handlers) DeployStatus(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	aggregateStatus, statusErr := handlers.deploy.Status(ginContext.Request.Context(), account.ID)
	if statusErr != nil {
		handlers.logger.Warn(logEventDeploy, zap.Error(statusErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, aggregateStatus)
}

// TriggerDeploy starts a deployment run. A run already pending is rejected.
func (handlers *Handlers) TriggerDeploy(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	triggerErr := handlers.deploy.TriggerDeploy(ginContext.Request.Context(), account.ID)
	handlers.respondToTrigger(ginContext, triggerErr)
}

// ConnectDomain records the custom domain and starts its connection run.
func (handlers *Handlers) ConnectDomain(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request connectDomainRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	connectErr := handlers.deploy.ConnectDomain(ginContext.Request.Context(), account.ID, request.Domain)
	if errors.Is(connectErr, workflow.ErrMissingDomain) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	handlers.respondToTrigger(ginContext, connectErr)
}

// PublishSubdomain records the subdomain label and starts its publishing
// run.
func (handlers *Handlers) PublishSubdomain(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request publishSubdomainRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	publishErr := handlers.deploy.PublishSubdomain(ginContext.Request.Context(), account.ID, request.Subdomain)
	if errors.Is(publishErr, workflow.ErrMissingSubdomain) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	handlers.respondToTrigger(ginContext, publishErr)
}

// ToggleIntegration flips one integration's connected flag.
func (handlers *Handlers) ToggleIntegration(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	integrations, toggleErr := handlers.deploy.ToggleIntegration(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamName))
	if errors.Is(toggleErr, workflow.ErrUnknownIntegration) {
		ginContext.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownItem})
		return
	}
	if toggleErr != nil {
		handlers.logger.Warn(logEventDeploy, zap.Error(toggleErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyItems: integrations})
}

func (handlers *Handlers) respondToTrigger(ginContext *gin.Context, triggerErr error) {
	if errors.Is(triggerErr, workflow.ErrWorkflowPending) {
		ginContext.JSON(http.StatusConflict, gin.H{jsonKeyError: errorValueWorkflowPending})
		return
	}
	if triggerErr != nil {
		handlers.logger.Warn(logEventDeploy, zap.Error(triggerErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusAccepted, gin.H{jsonKeyStatus: workflow.StatePending})
}
