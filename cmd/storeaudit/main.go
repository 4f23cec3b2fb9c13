// Command storeaudit checks an exported persisted-store snapshot against the
// keys and document shapes the dashboard writes. It reads a JSON export of
// store entries plus an optional YAML policy, prints warnings and errors,
// and exits non-zero when any error is found.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	defaultExportPath = "store-export.json"
	defaultPolicyPath = "store-audit.yml"

	defaultMaxValueBytes = 1 << 20
)

var errAuditFailed = errors.New("store_audit_failed")

type stringList []string

func (list *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*list = nil
		return nil
	}
	switch node.Kind {
	case yaml.ScalarNode:
		value := strings.TrimSpace(node.Value)
		if value == "" {
			*list = nil
			return nil
		}
		*list = []string{value}
		return nil
	case yaml.SequenceNode:
		entries := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			if child == nil {
				continue
			}
			value := strings.TrimSpace(child.Value)
			if value == "" {
				continue
			}
			entries = append(entries, value)
		}
		*list = entries
		return nil
	default:
		return fmt.Errorf("unsupported yaml node kind %d for list", node.Kind)
	}
}

type auditPolicy struct {
	AllowedExtraKeys stringList `yaml:"allowed_extra_keys"`
	RequiredKeys     stringList `yaml:"required_keys"`
	MaxValueBytes    int        `yaml:"max_value_bytes"`
}

type storeEntry struct {
	OwnerID string          `json:"ownerId"`
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
}

type auditResult struct {
	errors   []string
	warnings []string
}

func (result *auditResult) addError(message string, arguments ...any) {
	result.errors = append(result.errors, fmt.Sprintf(message, arguments...))
}

func (result *auditResult) addWarning(message string, arguments ...any) {
	result.warnings = append(result.warnings, fmt.Sprintf(message, arguments...))
}

func (result auditResult) ok() bool {
	return len(result.errors) == 0
}

func main() {
	exportPath := defaultExportPath
	policyPath := defaultPolicyPath
	if len(os.Args) > 1 {
		exportPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		policyPath = os.Args[2]
	}

	result := runAudit(exportPath, policyPath)
	sort.Strings(result.errors)
	sort.Strings(result.warnings)

	for _, warning := range result.warnings {
		_, _ = fmt.Fprintf(os.Stdout, "WARN: %s\n", warning)
	}
	for _, errorMessage := range result.errors {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %s\n", errorMessage)
	}
	if !result.ok() {
		_, _ = fmt.Fprintf(os.Stderr, "store-audit failed\n")
		os.Exit(1)
	}
	_, _ = fmt.Fprintf(os.Stdout, "store-audit OK\n")
}

func runAudit(exportPath string, policyPath string) auditResult {
	var result auditResult

	policy, policyErr := loadPolicy(policyPath)
	if policyErr != nil {
		result.addError("read policy %s: %v", policyPath, policyErr)
		return result
	}

	entries, exportErr := loadExport(exportPath)
	if exportErr != nil {
		result.addError("read export %s: %v", exportPath, exportErr)
		return result
	}

	knownKeys := make(map[string]struct{})
	for _, key := range store.KnownKeys() {
		knownKeys[key] = struct{}{}
	}
	for _, key := range policy.AllowedExtraKeys {
		knownKeys[key] = struct{}{}
	}

	seenPairs := make(map[string]struct{}, len(entries))
	keysByOwner := make(map[string]map[string]struct{})

	for _, entry := range entries {
		if strings.TrimSpace(entry.OwnerID) == "" {
			result.addError("entry %s: empty owner", entry.Key)
			continue
		}
		if !strings.HasPrefix(entry.Key, store.KeyPrefix) {
			result.addError("owner %s: key %s lacks the %s prefix", entry.OwnerID, entry.Key, store.KeyPrefix)
		}
		if _, known := knownKeys[entry.Key]; !known {
			result.addError("owner %s: unknown key %s", entry.OwnerID, entry.Key)
		}

		pairIdentifier := entry.OwnerID + "\x00" + entry.Key
		if _, duplicate := seenPairs[pairIdentifier]; duplicate {
			result.addError("owner %s: duplicate entry for key %s", entry.OwnerID, entry.Key)
		}
		seenPairs[pairIdentifier] = struct{}{}

		if keysByOwner[entry.OwnerID] == nil {
			keysByOwner[entry.OwnerID] = make(map[string]struct{})
		}
		keysByOwner[entry.OwnerID][entry.Key] = struct{}{}

		auditValue(entry, policy, &result)
	}

	for ownerID, ownedKeys := range keysByOwner {
		for _, requiredKey := range policy.RequiredKeys {
			if _, present := ownedKeys[requiredKey]; !present {
				result.addWarning("owner %s: required key %s missing", ownerID, requiredKey)
			}
		}
	}

	return result
}

func auditValue(entry storeEntry, policy auditPolicy, result *auditResult) {
	if !json.Valid(entry.Value) {
		result.addError("owner %s: key %s holds invalid json", entry.OwnerID, entry.Key)
		return
	}
	if len(entry.Value) > policy.MaxValueBytes {
		result.addWarning("owner %s: key %s holds %d bytes (limit %d)", entry.OwnerID, entry.Key, len(entry.Value), policy.MaxValueBytes)
	}

	switch entry.Key {
	case store.KeyProjects:
		auditProjects(entry, result)
	case store.KeyPosts:
		auditPosts(entry, result)
	}
}

func auditProjects(entry storeEntry, result *auditResult) {
	var projects []model.Project
	if unmarshalErr := json.Unmarshal(entry.Value, &projects); unmarshalErr != nil {
		result.addError("owner %s: projects document does not decode: %v", entry.OwnerID, unmarshalErr)
		return
	}
	seenIdentifiers := make(map[string]struct{}, len(projects))
	for _, project := range projects {
		if _, duplicate := seenIdentifiers[project.ID]; duplicate {
			result.addError("owner %s: duplicate project id %s", entry.OwnerID, project.ID)
		}
		seenIdentifiers[project.ID] = struct{}{}
		if project.Status == model.ProjectStatusPublished && project.URL == "" {
			result.addError("owner %s: project %s published without a url", entry.OwnerID, project.ID)
		}
		if project.Status != model.ProjectStatusPublished && project.Status != model.ProjectStatusDraft {
			result.addWarning("owner %s: project %s carries unknown status %q", entry.OwnerID, project.ID, project.Status)
		}
	}
}

func auditPosts(entry storeEntry, result *auditResult) {
	var posts []model.BlogPost
	if unmarshalErr := json.Unmarshal(entry.Value, &posts); unmarshalErr != nil {
		result.addError("owner %s: posts document does not decode: %v", entry.OwnerID, unmarshalErr)
		return
	}
	seenIdentifiers := make(map[string]struct{}, len(posts))
	for _, post := range posts {
		if _, duplicate := seenIdentifiers[post.ID]; duplicate {
			result.addError("owner %s: duplicate post id %s", entry.OwnerID, post.ID)
		}
		seenIdentifiers[post.ID] = struct{}{}
		if post.Status == model.PostStatusPublished && post.PublishDate == nil {
			result.addError("owner %s: post %s published without a publish date", entry.OwnerID, post.ID)
		}
	}
}

func loadPolicy(policyPath string) (auditPolicy, error) {
	policy := auditPolicy{MaxValueBytes: defaultMaxValueBytes}

	policyDocument, readErr := os.ReadFile(policyPath)
	if errors.Is(readErr, os.ErrNotExist) {
		return policy, nil
	}
	if readErr != nil {
		return auditPolicy{}, readErr
	}
	if decodeErr := yaml.Unmarshal(policyDocument, &policy); decodeErr != nil {
		return auditPolicy{}, decodeErr
	}
	if policy.MaxValueBytes <= 0 {
		policy.MaxValueBytes = defaultMaxValueBytes
	}
	return policy, nil
}

func loadExport(exportPath string) ([]storeEntry, error) {
	exportDocument, readErr := os.ReadFile(exportPath)
	if readErr != nil {
		return nil, readErr
	}
	var entries []storeEntry
	if decodeErr := json.Unmarshal(exportDocument, &entries); decodeErr != nil {
		return nil, decodeErr
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: export holds no entries", errAuditFailed)
	}
	return entries, nil
}
