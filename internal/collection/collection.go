// Package collection implements the uniform entity-collection pattern shared
// by projects, blog posts, team members, invoices and payment cards: load the
// full list from the persisted store, mutate in memory, write the full list
// back before returning, and announce the outcome through the notification
// center.
package collection

import (
	"context"
	"strings"

	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

// FilterAll matches every record.
const FilterAll = "All Status"

// Notifier receives operation-outcome notifications. The notification center
// satisfies this interface.
type Notifier interface {
	Success(ownerID string, title string, message string)
}

// Filter combines a case-insensitive substring query on the display field
// with an exact status or role match. Zero values match everything.
type Filter struct {
	Query  string
	Status string
}

func (filter Filter) matchesQuery(displayField string) bool {
	trimmedQuery := strings.TrimSpace(filter.Query)
	if trimmedQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(displayField), strings.ToLower(trimmedQuery))
}

func (filter Filter) matchesStatus(status string) bool {
	trimmedStatus := strings.TrimSpace(filter.Status)
	if trimmedStatus == "" || trimmedStatus == FilterAll {
		return true
	}
	return status == trimmedStatus
}

// loadList decodes the collection under key, falling back to an empty list on
// a missing key or an unreadable document.
func loadList[T any](ctx context.Context, persistedStore store.Store, ownerID string, key string) ([]T, error) {
	items := []T{}
	if _, loadErr := store.Load(ctx, persistedStore, ownerID, key, &items); loadErr != nil {
		return nil, loadErr
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// prepend inserts the new record at the head, preserving most-recent-first order.
func prepend[T any](items []T, newItem T) []T {
	updated := make([]T, 0, len(items)+1)
	updated = append(updated, newItem)
	updated = append(updated, items...)
	return updated
}
