package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"
)

var (
	ErrInvalidRole = errors.New("invalid_role")
)

// Capabilities enumerates what a role is allowed to do. The mapping lives in
// one place so page-level code never re-declares permissions.
type Capabilities struct {
	CanManageTeam    bool
	CanManageBilling bool
	CanEditContent   bool
	CanPublish       bool
	CanView          bool
}

var roleCapabilities = map[string]Capabilities{
	RoleAdmin: {
		CanManageTeam:    true,
		CanManageBilling: true,
		CanEditContent:   true,
		CanPublish:       true,
		CanView:          true,
	},
	RoleEditor: {
		CanEditContent: true,
		CanPublish:     true,
		CanView:        true,
	},
	RoleViewer: {
		CanView: true,
	},
}

// NormalizeRole validates a raw role value and returns its canonical form.
func NormalizeRole(rawRole string) (string, error) {
	trimmedRole := strings.TrimSpace(rawRole)
	switch trimmedRole {
	case RoleAdmin, RoleEditor, RoleViewer:
		return trimmedRole, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidRole, rawRole)
	}
}

// CapabilitiesForRole resolves the capability set for a role. Unknown roles
// resolve to the empty capability set.
func CapabilitiesForRole(role string) Capabilities {
	capabilities, known := roleCapabilities[role]
	if !known {
		return Capabilities{}
	}
	return capabilities
}
