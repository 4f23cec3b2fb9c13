package collection_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	testOwnerIdentifier = "owner-1"
)

// memoryStore is a map-backed store for exercising the collections without a
// database.
type memoryStore struct {
	mutex     sync.Mutex
	documents map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{documents: make(map[string][]byte)}
}

func (persistedStore *memoryStore) documentKey(ownerID string, key string) string {
	return ownerID + "/" + key
}

func (persistedStore *memoryStore) Get(_ context.Context, ownerID string, key string) ([]byte, error) {
	persistedStore.mutex.Lock()
	defer persistedStore.mutex.Unlock()

	document, present := persistedStore.documents[persistedStore.documentKey(ownerID, key)]
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
	persistedStore.documents[persistedStore.documentKey(ownerID, key)] = encodedValue
	return nil
}

func (persistedStore *memoryStore) Delete(_ context.Context, ownerID string, key string) error {
	persistedStore.mutex.Lock()
	defer persistedStore.mutex.Unlock()
	delete(persistedStore.documents, persistedStore.documentKey(ownerID, key))
	return nil
}

// recordedNotification captures one Success call for assertions.
type recordedNotification struct {
	OwnerID string
	Title   string
	Message string
}

type recordingNotifier struct {
	mutex         sync.Mutex
	notifications []recordedNotification
}

func (notifier *recordingNotifier) Success(ownerID string, title string, message string) {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()
	notifier.notifications = append(notifier.notifications, recordedNotification{
		OwnerID: ownerID,
		Title:   title,
		Message: message,
	})
}

func (notifier *recordingNotifier) recorded() []recordedNotification {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()
	copied := make([]recordedNotification, len(notifier.notifications))
	copy(copied, notifier.notifications)
	return copied
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
