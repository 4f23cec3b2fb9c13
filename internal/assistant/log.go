package assistant

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	defaultReplyDelay = 1500 * time.Millisecond

	logEventSaveMessages = "save_assistant_messages"
	logEventReplyFailed  = "assistant_reply_failed"
)

var (
	// ErrReplyPending indicates a reply is already being composed for the
	// owner; sending is blocked until it lands.
	ErrReplyPending = errors.New("assistant: reply pending")
)

// Log is the persisted conversation service. Each send appends exactly one
// user message immediately and exactly one assistant message after the
// simulated typing delay. Messages are never edited or deleted.
type Log struct {
	persistedStore store.Store
	logger         *zap.Logger
	replyDelay     time.Duration
	clock          func() time.Time

	mutex   sync.Mutex
	pending map[string]struct{}
}

// NewLog creates the conversation log service.
func NewLog(persistedStore store.Store, logger *zap.Logger) *Log {
	return &Log{
		persistedStore: persistedStore,
		logger:         logger,
		replyDelay:     defaultReplyDelay,
		clock:          time.Now,
		pending:        make(map[string]struct{}),
	}
}

// WithReplyDelay overrides the simulated typing delay, primarily for tests.
func (conversationLog *Log) WithReplyDelay(replyDelay time.Duration) *Log {
	if replyDelay > 0 {
		conversationLog.replyDelay = replyDelay
	}
	return conversationLog
}

// WithClock overrides the timestamp clock, primarily for tests.
func (conversationLog *Log) WithClock(clock func() time.Time) *Log {
	conversationLog.clock = clock
	return conversationLog
}

// Messages returns the owner's conversation, seeding the assistant greeting
// into an empty log.
func (conversationLog *Log) Messages(ctx context.Context, ownerID string) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	populated, loadErr := store.Load(ctx, conversationLog.persistedStore, ownerID, store.KeyAssistantMessages, &messages)
	if loadErr != nil {
		return nil, loadErr
	}
	if !populated || len(messages) == 0 {
		greeting, greetingErr := model.NewChatMessage(model.ChatRoleAssistant, GreetingMessage, conversationLog.clock())
		if greetingErr != nil {
			return nil, greetingErr
		}
		return []model.ChatMessage{greeting}, nil
	}
	return messages, nil
}

// Replying reports whether an assistant reply is in flight for the owner.
func (conversationLog *Log) Replying(ownerID string) bool {
	conversationLog.mutex.Lock()
	defer conversationLog.mutex.Unlock()
	_, replying := conversationLog.pending[ownerID]
	return replying
}

// Send appends the user message, persists the log, and schedules the canned
// assistant reply after the typing delay. Sending while a reply is pending is
// rejected.
func (conversationLog *Log) Send(ctx context.Context, ownerID string, content string) (model.ChatMessage, error) {
	userMessage, constructErr := model.NewChatMessage(model.ChatRoleUser, content, conversationLog.clock())
	if constructErr != nil {
		return model.ChatMessage{}, constructErr
	}

	conversationLog.mutex.Lock()
	if _, replying := conversationLog.pending[ownerID]; replying {
		conversationLog.mutex.Unlock()
		return model.ChatMessage{}, ErrReplyPending
	}
	conversationLog.pending[ownerID] = struct{}{}
	conversationLog.mutex.Unlock()

	messages, loadErr := conversationLog.Messages(ctx, ownerID)
	if loadErr != nil {
		conversationLog.clearPending(ownerID)
		return model.ChatMessage{}, loadErr
	}

	messages = append(messages, userMessage)
	if saveErr := conversationLog.save(ctx, ownerID, messages); saveErr != nil {
		conversationLog.clearPending(ownerID)
		return model.ChatMessage{}, saveErr
	}

	time.AfterFunc(conversationLog.replyDelay, func() {
		conversationLog.deliverReply(ownerID, content)
	})

	return userMessage, nil
}

func (conversationLog *Log) deliverReply(ownerID string, userInput string) {
	defer conversationLog.clearPending(ownerID)

	replyContext := context.Background()
	assistantMessage, constructErr := model.NewChatMessage(model.ChatRoleAssistant, GenerateResponse(userInput), conversationLog.clock())
	if constructErr != nil {
		conversationLog.logger.Warn(logEventReplyFailed, zap.Error(constructErr))
		return
	}

	messages, loadErr := conversationLog.Messages(replyContext, ownerID)
	if loadErr != nil {
		conversationLog.logger.Warn(logEventReplyFailed, zap.Error(loadErr))
		return
	}

	if saveErr := conversationLog.save(replyContext, ownerID, append(messages, assistantMessage)); saveErr != nil {
		conversationLog.logger.Warn(logEventReplyFailed, zap.Error(saveErr))
	}
}

func (conversationLog *Log) clearPending(ownerID string) {
	conversationLog.mutex.Lock()
	delete(conversationLog.pending, ownerID)
	conversationLog.mutex.Unlock()
}

func (conversationLog *Log) save(ctx context.Context, ownerID string, messages []model.ChatMessage) error {
	if saveErr := conversationLog.persistedStore.Set(ctx, ownerID, store.KeyAssistantMessages, messages); saveErr != nil {
		conversationLog.logger.Warn(logEventSaveMessages, zap.Error(saveErr))
		return saveErr
	}
	return nil
}
