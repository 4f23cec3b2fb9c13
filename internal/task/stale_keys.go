// Package task holds the background maintenance jobs scheduled by the
// server process.
package task

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	logEventSweepStaleKeys = "sweep_stale_keys"
	logFieldRemovedEntries = "removed"
)

// StaleKeySweeper prunes persisted-store rows filed under keys the
// application no longer reads. Stale rows appear when a release retires a
// key; they are harmless but accumulate forever without a sweep.
type StaleKeySweeper struct {
	database *gorm.DB
	logger   *zap.Logger
}

// NewStaleKeySweeper constructs a sweeper over the relational store backend.
func NewStaleKeySweeper(database *gorm.DB, logger *zap.Logger) *StaleKeySweeper {
	return &StaleKeySweeper{database: database, logger: logger}
}

// Run removes every store entry whose key is not currently known and
// reports how many rows were dropped.
func (sweeper *StaleKeySweeper) Run(ctx context.Context) (int64, error) {
	deleteResult := sweeper.database.WithContext(ctx).
		Where("key NOT IN ?", store.KnownKeys()).
		Delete(&model.StoreEntry{})
	if deleteResult.Error != nil {
		sweeper.logger.Warn(logEventSweepStaleKeys, zap.Error(deleteResult.Error))
		return 0, deleteResult.Error
	}
	if deleteResult.RowsAffected > 0 {
		sweeper.logger.Info(logEventSweepStaleKeys, zap.Int64(logFieldRemovedEntries, deleteResult.RowsAffected))
	}
	return deleteResult.RowsAffected, nil
}
