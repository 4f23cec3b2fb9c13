package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

const (
	errorMessageMarshalValue = "store: marshal value"
	errorMessageReadEntry    = "store: read entry"
	errorMessageWriteEntry   = "store: write entry"
	errorMessageDeleteEntry  = "store: delete entry"
)

// GormStore persists documents in the store_entries table.
type GormStore struct {
	database *gorm.DB
}

// NewGormStore creates a store backed by the relational database.
func NewGormStore(database *gorm.DB) *GormStore {
	return &GormStore{database: database}
}

func (persistedStore *GormStore) Get(ctx context.Context, ownerID string, key string) ([]byte, error) {
	trimmedOwnerID, trimmedKey, validationErr := validateOwnerAndKey(ownerID, key)
	if validationErr != nil {
		return nil, validationErr
	}

	var entry model.StoreEntry
	queryErr := persistedStore.database.WithContext(ctx).
		First(&entry, "owner_id = ? AND key = ?", trimmedOwnerID, trimmedKey).Error
	if queryErr != nil {
		if errors.Is(queryErr, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, trimmedKey)
		}
		return nil, fmt.Errorf("%s: %w", errorMessageReadEntry, queryErr)
	}

	return entry.Value, nil
}

func (persistedStore *GormStore) Set(ctx context.Context, ownerID string, key string, value any) error {
	trimmedOwnerID, trimmedKey, validationErr := validateOwnerAndKey(ownerID, key)
	if validationErr != nil {
		return validationErr
	}

	encodedValue, marshalErr := json.Marshal(value)
	if marshalErr != nil {
		return fmt.Errorf("%s: %w", errorMessageMarshalValue, marshalErr)
	}

	entry := model.StoreEntry{
		OwnerID: trimmedOwnerID,
		Key:     trimmedKey,
		Value:   encodedValue,
	}

	writeErr := persistedStore.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if writeErr != nil {
		return fmt.Errorf("%s: %w", errorMessageWriteEntry, writeErr)
	}

	return nil
}

func (persistedStore *GormStore) Delete(ctx context.Context, ownerID string, key string) error {
	trimmedOwnerID, trimmedKey, validationErr := validateOwnerAndKey(ownerID, key)
	if validationErr != nil {
		return validationErr
	}

	deleteErr := persistedStore.database.WithContext(ctx).
		Delete(&model.StoreEntry{}, "owner_id = ? AND key = ?", trimmedOwnerID, trimmedKey).Error
	if deleteErr != nil {
		return fmt.Errorf("%s: %w", errorMessageDeleteEntry, deleteErr)
	}

	return nil
}

func validateOwnerAndKey(ownerID string, key string) (string, string, error) {
	trimmedOwnerID := strings.TrimSpace(ownerID)
	if trimmedOwnerID == "" {
		return "", "", ErrMissingOwner
	}
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", "", ErrMissingKey
	}
	return trimmedOwnerID, trimmedKey, nil
}
