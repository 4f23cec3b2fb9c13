package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/notify"
)

const (
	sseEventName          = "notification"
	sseEventPrefix        = "event: "
	sseDataPrefix         = "data: "
	sseEventTerminator    = "\n\n"
	headerNameContentType = "Content-Type"
	headerNameCache       = "Cache-Control"
	headerNameConnection  = "Connection"
	contentTypeEventQueue = "text/event-stream"
	cacheControlNoCache   = "no-cache"
	connectionKeepAlive   = "keep-alive"

	logEventStreamNotification = "stream_notification"
)

// NotificationState reports the display phase, the notification currently on
// screen, and the queue depth.
func (handlers *Handlers) NotificationState(ginContext *gin.Context) {
	phase, currentNotification, queueLength := handlers.notifyCenter.State()
	responsePayload := gin.H{
		jsonKeyPhase:  phase,
		jsonKeyQueued: queueLength,
	}
	if phase != notify.PhaseIdle {
		responsePayload[jsonKeyContent] = currentNotification
	}
	ginContext.JSON(http.StatusOK, responsePayload)
}

// DismissNotification closes the visible notification ahead of its timer.
func (handlers *Handlers) DismissNotification(ginContext *gin.Context) {
	handlers.notifyCenter.Dismiss()
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyStatus: statusValueOK})
}

// StreamNotifications pushes display phase transitions over SSE. Only the
// caller's notifications are delivered; idle transitions pass through so the
// client can retire whatever it is showing.
func (handlers *Handlers) StreamNotifications(ginContext *gin.Context) {
	account, ok := AccountFromContext(ginContext)
	if !ok {
		ginContext.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}
	subscription := handlers.notifyCenter.Subscribe()
	if subscription == nil {
		ginContext.JSON(http.StatusServiceUnavailable, gin.H{jsonKeyError: errorValueStreamUnavailable})
		return
	}
	defer subscription.Close()

	ginContext.Header(headerNameContentType, contentTypeEventQueue)
	ginContext.Header(headerNameCache, cacheControlNoCache)
	ginContext.Header(headerNameConnection, connectionKeepAlive)

	flusher, flushable := ginContext.Writer.(http.Flusher)
	if !flushable {
		ginContext.JSON(http.StatusServiceUnavailable, gin.H{jsonKeyError: errorValueStreamUnavailable})
		return
	}

	ginContext.Writer.WriteHeaderNow()
	flusher.Flush()

	requestContext := ginContext.Request.Context()

	for {
		select {
		case <-requestContext.Done():
			return
		case event, open := <-subscription.Events():
			if !open {
				return
			}
			if event.Notification.OwnerID != "" && event.Notification.OwnerID != account.ID {
				continue
			}
			serializedEvent, marshalErr := json.Marshal(event)
			if marshalErr != nil {
				handlers.logger.Debug(logEventStreamNotification, zap.Error(marshalErr))
				continue
			}
			var buffer bytes.Buffer
			buffer.WriteString(sseEventPrefix + sseEventName + "\n")
			buffer.WriteString(sseDataPrefix)
			buffer.Write(serializedEvent)
			buffer.WriteString(sseEventTerminator)
			if _, writeErr := ginContext.Writer.Write(buffer.Bytes()); writeErr != nil {
				return
			}
			flusher.Flush()
		}
	}
}
