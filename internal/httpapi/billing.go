package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

const (
	logEventListBilling    = "list_billing"
	logEventPersistBilling = "persist_billing"

	notifyTitleInvoiceDownloaded   = "Invoice Downloaded"
	notifyMessageInvoiceDownloaded = "Invoice has been downloaded successfully"

	invoiceDocumentContentType  = "text/plain; charset=utf-8"
	headerContentDisposition    = "Content-Disposition"
	attachmentDispositionFormat = "attachment; filename=%q"
)

type addInvoiceRequest struct {
	Amount  string `json:"amount"`
	Details string `json:"details"`
}

type addCardRequest struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
}

type changePlanRequest struct {
	Plan string `json:"plan"`
}

// ListInvoices returns the owner's billing records, newest first.
func (handlers *Handlers) ListInvoices(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	allInvoices, listErr := handlers.billing.ListInvoices(ginContext.Request.Context(), account.ID)
	if listErr != nil {
		handlers.logger.Warn(logEventListBilling, zap.Error(listErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyItems: allInvoices})
}

// AddInvoice records a paid invoice dated today.
func (handlers *Handlers) AddInvoice(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request addInvoiceRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	newInvoice, addErr := handlers.billing.AddInvoice(ginContext.Request.Context(), account.ID, model.InvoiceInput{
		Amount:  request.Amount,
		Details: request.Details,
	})
	if errors.Is(addErr, model.ErrInvalidInvoiceAmount) || errors.Is(addErr, model.ErrInvalidInvoiceDetails) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if addErr != nil {
		handlers.logger.Warn(logEventPersistBilling, zap.Error(addErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusCreated, newInvoice)
}

// DeleteInvoice removes one billing record. Deleting an absent id leaves
// the collection unchanged.
func (handlers *Handlers) DeleteInvoice(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	if deleteErr := handlers.billing.DeleteInvoice(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID)); deleteErr != nil {
		handlers.logger.Warn(logEventPersistBilling, zap.Error(deleteErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyStatus: statusValueOK})
}

// DownloadInvoice streams the plain-text invoice document as an attachment
// named after the invoice id.
func (handlers *Handlers) DownloadInvoice(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	invoice, found, findErr := handlers.billing.FindInvoice(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID))
	if findErr != nil {
		handlers.logger.Warn(logEventListBilling, zap.Error(findErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	if !found {
		ginContext.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownItem})
		return
	}
	invoiceDocument, renderErr := handlers.billing.RenderInvoiceDocument(ginContext.Request.Context(), account.ID, invoice)
	if renderErr != nil {
		handlers.logger.Warn(logEventListBilling, zap.Error(renderErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	handlers.notifyCenter.Success(account.ID, notifyTitleInvoiceDownloaded, notifyMessageInvoiceDownloaded)
	ginContext.Header(headerContentDisposition, fmt.Sprintf(attachmentDispositionFormat, invoice.ID+".txt"))
	ginContext.Data(http.StatusOK, invoiceDocumentContentType, []byte(invoiceDocument))
}

// ListCards returns the owner's stored payment methods with masked numbers.
func (handlers *Handlers) ListCards(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	allCards, listErr := handlers.billing.ListCards(ginContext.Request.Context(), account.ID)
	if listErr != nil {
		handlers.logger.Warn(logEventListBilling, zap.Error(listErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyItems: allCards})
}

// AddCard stores a payment method.
func (handlers *Handlers) AddCard(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request addCardRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	newCard, addErr := handlers.billing.AddCard(ginContext.Request.Context(), account.ID, request.Number, request.Expiry)
	if errors.Is(addErr, model.ErrInvalidCardNumber) || errors.Is(addErr, model.ErrInvalidCardExpiry) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if addErr != nil {
		handlers.logger.Warn(logEventPersistBilling, zap.Error(addErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusCreated, newCard)
}

// RemoveCard drops the payment method at the position. An out of range
// position leaves the list unchanged.
func (handlers *Handlers) RemoveCard(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	cardIndex, parseErr := strconv.Atoi(ginContext.Param(pathParamIndex))
	if parseErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if removeErr := handlers.billing.RemoveCard(ginContext.Request.Context(), account.ID, cardIndex); removeErr != nil {
		handlers.logger.Warn(logEventPersistBilling, zap.Error(removeErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyStatus: statusValueOK})
}

// CurrentPlan reports the owner's subscription tier.
func (handlers *Handlers) CurrentPlan(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	planName, planErr := handlers.billing.CurrentPlan(ginContext.Request.Context(), account.ID)
	if planErr != nil {
		handlers.logger.Warn(logEventListBilling, zap.Error(planErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyPlan: planName})
}

// ChangePlan switches the owner's subscription tier.
func (handlers *Handlers) ChangePlan(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request changePlanRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	if changeErr := handlers.billing.SetCurrentPlan(ginContext.Request.Context(), account.ID, request.Plan); changeErr != nil {
		handlers.logger.Warn(logEventPersistBilling, zap.Error(changeErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyPlan: request.Plan})
}
