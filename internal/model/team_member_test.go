package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

const (
	testInviteEmailValue     = "Bob@Example.com"
	testInviteExpectedEmail  = "bob@example.com"
	testInviteExpectedName   = "bob"
	testInviteMalformedEmail = "not-an-address"
)

var testInviteMoment = time.Date(2024, time.June, 2, 8, 0, 0, 0, time.UTC)

func TestNewTeamMemberDerivesNameFromEmailLocalPart(t *testing.T) {
	member, memberErr := model.NewTeamMember(model.TeamMemberInput{
		Email: testInviteEmailValue,
		Role:  model.RoleEditor,
	}, testInviteMoment)
	require.NoError(t, memberErr)

	require.NotEmpty(t, member.ID)
	require.Equal(t, testInviteExpectedEmail, member.Email)
	require.Equal(t, testInviteExpectedName, member.Name)
	require.Equal(t, model.RoleEditor, member.Role)
	require.Contains(t, member.Avatar, testInviteExpectedEmail)
	require.Equal(t, "2024-06-02", member.JoinedDate)
}

func TestNewTeamMemberRejectsMalformedEmail(t *testing.T) {
	_, memberErr := model.NewTeamMember(model.TeamMemberInput{
		Email: testInviteMalformedEmail,
		Role:  model.RoleViewer,
	}, testInviteMoment)
	require.ErrorIs(t, memberErr, model.ErrInvalidMemberEmail)
}

func TestNewTeamMemberRejectsUnknownRole(t *testing.T) {
	_, memberErr := model.NewTeamMember(model.TeamMemberInput{
		Email: testInviteEmailValue,
		Role:  "Owner",
	}, testInviteMoment)
	require.ErrorIs(t, memberErr, model.ErrInvalidRole)
}

func TestNormalizeRoleAcceptsCanonicalRoles(t *testing.T) {
	for _, canonicalRole := range []string{model.RoleAdmin, model.RoleEditor, model.RoleViewer} {
		normalizedRole, roleErr := model.NormalizeRole("  " + canonicalRole + "  ")
		require.NoError(t, roleErr)
		require.Equal(t, canonicalRole, normalizedRole)
	}
}

func TestCapabilitiesForRoleMapsPermissions(t *testing.T) {
	adminCapabilities := model.CapabilitiesForRole(model.RoleAdmin)
	require.True(t, adminCapabilities.CanManageTeam)
	require.True(t, adminCapabilities.CanManageBilling)

	editorCapabilities := model.CapabilitiesForRole(model.RoleEditor)
	require.False(t, editorCapabilities.CanManageTeam)
	require.True(t, editorCapabilities.CanPublish)

	viewerCapabilities := model.CapabilitiesForRole(model.RoleViewer)
	require.True(t, viewerCapabilities.CanView)
	require.False(t, viewerCapabilities.CanEditContent)

	require.Equal(t, model.Capabilities{}, model.CapabilitiesForRole("Stranger"))
}
