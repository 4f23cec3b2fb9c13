package assistant_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/assistant"
	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	testOwnerIdentifier  = "owner-1"
	testUserMessageValue = "Write a homepage headline for a tech startup"
	testReplyDelayValue  = 5 * time.Millisecond
	testReplyWaitValue   = 2 * time.Second
	testReplyPollValue   = 5 * time.Millisecond
)

type memoryStore struct {
	mutex     sync.Mutex
	documents map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{documents: make(map[string][]byte)}
}

func (persistedStore *memoryStore) Get(_ context.Context, ownerID string, key string) ([]byte, error) {
	persistedStore.mutex.Lock()
	defer persistedStore.mutex.Unlock()
	document, present := persistedStore.documents[ownerID+"/"+key]
	if !present {
		return nil, fmt.Errorf("%w: %s", store.ErrKeyNotFound, key)
	}
	return document, nil
}

func (persistedStore *memoryStore) Set(_ context.Context, ownerID string, key string, value any) error {
	encodedValue, marshalErr := json.Marshal(value)
	if marshalErr != nil {
		return marshalErr
	}
	persistedStore.mutex.Lock()
	defer persistedStore.mutex.Unlock()
	persistedStore.documents[ownerID+"/"+key] = encodedValue
	return nil
}

func (persistedStore *memoryStore) Delete(_ context.Context, ownerID string, key string) error {
	persistedStore.mutex.Lock()
	defer persistedStore.mutex.Unlock()
	delete(persistedStore.documents, ownerID+"/"+key)
	return nil
}

func newLogUnderTest(t *testing.T) *assistant.Log {
	t.Helper()
	return assistant.NewLog(newMemoryStore(), zap.NewNop()).WithReplyDelay(testReplyDelayValue)
}

func TestMessagesSeedsGreetingIntoEmptyLog(t *testing.T) {
	conversationLog := newLogUnderTest(t)

	messages, messagesErr := conversationLog.Messages(context.Background(), testOwnerIdentifier)
	require.NoError(t, messagesErr)
	require.Len(t, messages, 1)
	require.Equal(t, model.ChatRoleAssistant, messages[0].Role)
	require.Equal(t, assistant.GreetingMessage, messages[0].Content)
}

func TestSendAppendsUserMessageAndDeliversReply(t *testing.T) {
	conversationLog := newLogUnderTest(t)
	requestContext := context.Background()

	userMessage, sendErr := conversationLog.Send(requestContext, testOwnerIdentifier, testUserMessageValue)
	require.NoError(t, sendErr)
	require.Equal(t, model.ChatRoleUser, userMessage.Role)
	require.Equal(t, testUserMessageValue, userMessage.Content)

	require.Eventually(t, func() bool {
		return !conversationLog.Replying(testOwnerIdentifier)
	}, testReplyWaitValue, testReplyPollValue)

	messages, messagesErr := conversationLog.Messages(requestContext, testOwnerIdentifier)
	require.NoError(t, messagesErr)
	require.Len(t, messages, 3)
	require.Equal(t, assistant.GreetingMessage, messages[0].Content)
	require.Equal(t, testUserMessageValue, messages[1].Content)
	require.Equal(t, model.ChatRoleAssistant, messages[2].Role)
	require.Equal(t, assistant.GenerateResponse(testUserMessageValue), messages[2].Content)
}

func TestSendWhileReplyPendingIsRejected(t *testing.T) {
	conversationLog := assistant.NewLog(newMemoryStore(), zap.NewNop()).WithReplyDelay(time.Minute)
	requestContext := context.Background()

	_, firstErr := conversationLog.Send(requestContext, testOwnerIdentifier, testUserMessageValue)
	require.NoError(t, firstErr)
	require.True(t, conversationLog.Replying(testOwnerIdentifier))

	_, secondErr := conversationLog.Send(requestContext, testOwnerIdentifier, testUserMessageValue)
	require.ErrorIs(t, secondErr, assistant.ErrReplyPending)
}

func TestSendRejectsBlankContent(t *testing.T) {
	conversationLog := newLogUnderTest(t)

	_, sendErr := conversationLog.Send(context.Background(), testOwnerIdentifier, "   ")
	require.ErrorIs(t, sendErr, model.ErrEmptyChatContent)
	require.False(t, conversationLog.Replying(testOwnerIdentifier))
}

func TestPendingGateIsPerOwner(t *testing.T) {
	conversationLog := assistant.NewLog(newMemoryStore(), zap.NewNop()).WithReplyDelay(time.Minute)
	requestContext := context.Background()

	_, firstErr := conversationLog.Send(requestContext, testOwnerIdentifier, testUserMessageValue)
	require.NoError(t, firstErr)

	_, otherErr := conversationLog.Send(requestContext, "owner-2", testUserMessageValue)
	require.NoError(t, otherErr)
}
