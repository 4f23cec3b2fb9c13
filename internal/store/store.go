// Package store implements the local persisted store: an owner-scoped
// mapping from string keys to JSON documents. Reads tolerate missing keys;
// writes fully replace the prior value. Nothing expires.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

const (
	// KeyPrefix namespaces every persisted key.
	KeyPrefix = "candlelight_"

	KeyProjects           = KeyPrefix + "projects"
	KeyPosts              = KeyPrefix + "posts"
	KeyTeam               = KeyPrefix + "team"
	KeyInvoices           = KeyPrefix + "invoices"
	KeyCards              = KeyPrefix + "cards"
	KeyCurrentPlan        = KeyPrefix + "current_plan"
	KeyAssistantMessages  = KeyPrefix + "assistant_messages"
	KeyGeneratedContent   = KeyPrefix + "generated_content"
	KeyDroppedComponents  = KeyPrefix + "dropped_components"
	KeyDeploySubdomain    = KeyPrefix + "deploy_subdomain"
	KeyDeployDomain       = KeyPrefix + "deploy_domain"
	KeyDeployStatus       = KeyPrefix + "deploy_status"
	KeyDomainStatus       = KeyPrefix + "domain_status"
	KeySubdomainStatus    = KeyPrefix + "subdomain_status"
	KeyDeployIntegrations = KeyPrefix + "deploy_integrations"
	KeyBrandKit           = KeyPrefix + "brand_kit"
)

var (
	// ErrKeyNotFound indicates the owner has no document under the key.
	ErrKeyNotFound = errors.New("store: key not found")
	// ErrMissingOwner indicates the owner identifier was empty.
	ErrMissingOwner = errors.New("store: missing owner")
	// ErrMissingKey indicates the key was empty.
	ErrMissingKey = errors.New("store: missing key")
)

// Store is the persisted key-value contract shared by every backend.
type Store interface {
	Get(ctx context.Context, ownerID string, key string) ([]byte, error)
	Set(ctx context.Context, ownerID string, key string, value any) error
	Delete(ctx context.Context, ownerID string, key string) error
}

// KnownKeys lists every key the application persists, for auditing tools.
func KnownKeys() []string {
	return []string{
		KeyProjects,
		KeyPosts,
		KeyTeam,
		KeyInvoices,
		KeyCards,
		KeyCurrentPlan,
		KeyAssistantMessages,
		KeyGeneratedContent,
		KeyDroppedComponents,
		KeyDeploySubdomain,
		KeyDeployDomain,
		KeyDeployStatus,
		KeyDomainStatus,
		KeySubdomainStatus,
		KeyDeployIntegrations,
		KeyBrandKit,
	}
}

// Load reads and decodes the document under key into target. It reports
// whether target was populated: a missing key or a document that fails to
// parse leaves target untouched so the caller's default survives. A corrupt
// document reads the same as an absent one; the next write replaces it.
func Load(ctx context.Context, persistedStore Store, ownerID string, key string, target any) (bool, error) {
	rawDocument, getErr := persistedStore.Get(ctx, ownerID, key)
	if getErr != nil {
		if errors.Is(getErr, ErrKeyNotFound) {
			return false, nil
		}
		return false, getErr
	}

	if unmarshalErr := json.Unmarshal(rawDocument, target); unmarshalErr != nil {
		return false, nil
	}
	return true, nil
}
