package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/assistant"
	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

const (
	logEventListAssistant    = "list_assistant_messages"
	logEventPersistAssistant = "persist_assistant_message"

	errorValueReplyPending = "assistant reply pending"
)

type sendAssistantMessageRequest struct {
	Content string `json:"content"`
}

// ListAssistantMessages returns the owner's conversation, seeding the
// greeting into an empty log.
func (handlers *Handlers) ListAssistantMessages(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	messages, listErr := handlers.assistantLog.Messages(ginContext.Request.Context(), account.ID)
	if listErr != nil {
		handlers.logger.Warn(logEventListAssistant, zap.Error(listErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{
		jsonKeyMessages: messages,
		jsonKeyReplying: handlers.assistantLog.Replying(account.ID),
	})
}

// SendAssistantMessage appends the user's message and schedules the canned
// reply. A second send while a reply is pending is rejected.
func (handlers *Handlers) SendAssistantMessage(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request sendAssistantMessageRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	userMessage, sendErr := handlers.assistantLog.Send(ginContext.Request.Context(), account.ID, request.Content)
	if errors.Is(sendErr, assistant.ErrReplyPending) {
		ginContext.JSON(http.StatusConflict, gin.H{jsonKeyError: errorValueReplyPending})
		return
	}
	if errors.Is(sendErr, model.ErrEmptyChatContent) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if sendErr != nil {
		handlers.logger.Warn(logEventPersistAssistant, zap.Error(sendErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusCreated, userMessage)
}
