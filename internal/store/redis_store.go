package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPattern = "candlelight:%s:%s"

// RedisStore persists documents as Redis string values keyed per owner.
// Documents never expire; the store is the durable source of truth.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store backed by Redis.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (persistedStore *RedisStore) Get(ctx context.Context, ownerID string, key string) ([]byte, error) {
	trimmedOwnerID, trimmedKey, validationErr := validateOwnerAndKey(ownerID, key)
	if validationErr != nil {
		return nil, validationErr
	}

	rawDocument, getErr := persistedStore.client.Get(ctx, redisKey(trimmedOwnerID, trimmedKey)).Bytes()
	if getErr != nil {
		if errors.Is(getErr, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, trimmedKey)
		}
		return nil, fmt.Errorf("%s: %w", errorMessageReadEntry, getErr)
	}

	return rawDocument, nil
}

func (persistedStore *RedisStore) Set(ctx context.Context, ownerID string, key string, value any) error {
	trimmedOwnerID, trimmedKey, validationErr := validateOwnerAndKey(ownerID, key)
	if validationErr != nil {
		return validationErr
	}

	encodedValue, marshalErr := json.Marshal(value)
	if marshalErr != nil {
		return fmt.Errorf("%s: %w", errorMessageMarshalValue, marshalErr)
	}

	if setErr := persistedStore.client.Set(ctx, redisKey(trimmedOwnerID, trimmedKey), encodedValue, 0).Err(); setErr != nil {
		return fmt.Errorf("%s: %w", errorMessageWriteEntry, setErr)
	}

	return nil
}

func (persistedStore *RedisStore) Delete(ctx context.Context, ownerID string, key string) error {
	trimmedOwnerID, trimmedKey, validationErr := validateOwnerAndKey(ownerID, key)
	if validationErr != nil {
		return validationErr
	}

	if deleteErr := persistedStore.client.Del(ctx, redisKey(trimmedOwnerID, trimmedKey)).Err(); deleteErr != nil {
		return fmt.Errorf("%s: %w", errorMessageDeleteEntry, deleteErr)
	}

	return nil
}

func redisKey(ownerID string, key string) string {
	return fmt.Sprintf(redisKeyPattern, ownerID, key)
}
