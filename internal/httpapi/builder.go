package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/builder"
)

const (
	logEventGenerateSite    = "generate_site"
	logEventPersistCanvas   = "persist_canvas"
	logEventExportSite      = "export_site"
	exportDocumentMimeType  = "text/html; charset=utf-8"
	errorValueUnknownWidget = "unknown component"
)

type generateSiteRequest struct {
	Prompt string `json:"prompt"`
}

type addComponentRequest struct {
	Name string `json:"name"`
}

// GenerateSite starts a simulated generation run from the prompt.
func (handlers *Handlers) GenerateSite(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request generateSiteRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	generateErr := handlers.siteBuilder.Generate(ginContext.Request.Context(), account.ID, request.Prompt)
	if errors.Is(generateErr, builder.ErrMissingPrompt) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if errors.Is(generateErr, builder.ErrGenerationPending) {
		ginContext.JSON(http.StatusConflict, gin.H{jsonKeyError: errorValueWorkflowPending})
		return
	}
	if generateErr != nil {
		handlers.logger.Warn(logEventGenerateSite, zap.Error(generateErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusAccepted, gin.H{jsonKeyGenerating: true})
}

// BuilderContent returns the generated site, when one exists, and whether a
// generation is still running.
func (handlers *Handlers) BuilderContent(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	generatedSite, populated, contentErr := handlers.siteBuilder.Content(ginContext.Request.Context(), account.ID)
	if contentErr != nil {
		handlers.logger.Warn(logEventGenerateSite, zap.Error(contentErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	responsePayload := gin.H{jsonKeyGenerating: handlers.siteBuilder.Generating(account.ID)}
	if populated {
		responsePayload[jsonKeyContent] = generatedSite
	}
	ginContext.JSON(http.StatusOK, responsePayload)
}

// ListComponents returns the manual canvas in drop order.
func (handlers *Handlers) ListComponents(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	droppedComponents, listErr := handlers.siteBuilder.Components(ginContext.Request.Context(), account.ID)
	if listErr != nil {
		handlers.logger.Warn(logEventPersistCanvas, zap.Error(listErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyComponents: droppedComponents})
}

// AddComponent drops a palette component onto the canvas.
func (handlers *Handlers) AddComponent(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request addComponentRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	droppedComponents, addErr := handlers.siteBuilder.AddComponent(ginContext.Request.Context(), account.ID, request.Name)
	if errors.Is(addErr, builder.ErrUnknownComponent) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueUnknownWidget})
		return
	}
	if addErr != nil {
		handlers.logger.Warn(logEventPersistCanvas, zap.Error(addErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusCreated, gin.H{jsonKeyComponents: droppedComponents})
}

// RemoveComponent deletes the canvas entry at the position. An out of range
// position leaves the canvas unchanged.
func (handlers *Handlers) RemoveComponent(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	componentIndex, parseErr := strconv.Atoi(ginContext.Param(pathParamIndex))
	if parseErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	droppedComponents, removeErr := handlers.siteBuilder.RemoveComponent(ginContext.Request.Context(), account.ID, componentIndex)
	if removeErr != nil {
		handlers.logger.Warn(logEventPersistCanvas, zap.Error(removeErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyComponents: droppedComponents})
}

// ExportSite streams the rendered HTML document as an attachment named
// after the generated business.
func (handlers *Handlers) ExportSite(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	fileName, renderedDocument, exportErr := handlers.siteBuilder.Export(ginContext.Request.Context(), account.ID)
	if errors.Is(exportErr, builder.ErrNothingToExport) {
		ginContext.JSON(http.StatusConflict, gin.H{jsonKeyError: errorValueNothingToExport})
		return
	}
	if exportErr != nil {
		handlers.logger.Warn(logEventExportSite, zap.Error(exportErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.Header(headerContentDisposition, fmt.Sprintf(attachmentDispositionFormat, fileName))
	ginContext.Data(http.StatusOK, exportDocumentMimeType, []byte(renderedDocument))
}
