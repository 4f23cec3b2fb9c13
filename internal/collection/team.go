package collection

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	notificationTitleMemberInvited = "Member Invited"
	notificationTitleMemberRemoved = "Member Removed"
	notificationTitleMemberUpdated = "Member Updated"

	notificationMessageMemberInvited = "Team member has been invited successfully"
	notificationMessageMemberRemoved = "Team member has been removed successfully"
	notificationMessageMemberUpdated = "Team member role has been updated successfully"

	logEventSaveTeam = "save_team"
)

// ErrLastTeamManager rejects a mutation that would leave the roster without
// any member whose role can manage the team.
var ErrLastTeamManager = errors.New("last_team_manager")

// Team manages the collaborator collection. Unlike the other collections it
// seeds the demo roster on first read, and invited members append to the tail.
type Team struct {
	persistedStore store.Store
	notifier       Notifier
	logger         *zap.Logger
	clock          func() time.Time
}

// NewTeam creates the team collection service.
func NewTeam(persistedStore store.Store, notifier Notifier, logger *zap.Logger) *Team {
	return &Team{persistedStore: persistedStore, notifier: notifier, logger: logger, clock: time.Now}
}

// WithClock overrides the joined-date clock, primarily for tests.
func (team *Team) WithClock(clock func() time.Time) *Team {
	team.clock = clock
	return team
}

// List returns the members filtered by name substring and exact role.
func (team *Team) List(ctx context.Context, ownerID string, filter Filter) ([]model.TeamMember, error) {
	allMembers, loadErr := team.loadOrSeed(ctx, ownerID)
	if loadErr != nil {
		return nil, loadErr
	}

	filtered := make([]model.TeamMember, 0, len(allMembers))
	for _, member := range allMembers {
		if filter.matchesQuery(member.Name) && filter.matchesStatus(member.Role) {
			filtered = append(filtered, member)
		}
	}
	return filtered, nil
}

// Invite appends a new member derived from the invite email.
func (team *Team) Invite(ctx context.Context, ownerID string, input model.TeamMemberInput) (model.TeamMember, error) {
	newMember, constructErr := model.NewTeamMember(input, team.clock())
	if constructErr != nil {
		return model.TeamMember{}, constructErr
	}

	allMembers, loadErr := team.loadOrSeed(ctx, ownerID)
	if loadErr != nil {
		return model.TeamMember{}, loadErr
	}

	if saveErr := team.save(ctx, ownerID, append(allMembers, newMember)); saveErr != nil {
		return model.TeamMember{}, saveErr
	}

	team.notifier.Success(ownerID, notificationTitleMemberInvited, notificationMessageMemberInvited)
	return newMember, nil
}

// UpdateRole changes the identified member's role. An absent identifier is a
// silent no-op. Demoting the roster's only managing member is rejected.
func (team *Team) UpdateRole(ctx context.Context, ownerID string, memberID string, rawRole string) (model.TeamMember, bool, error) {
	role, roleErr := model.NormalizeRole(rawRole)
	if roleErr != nil {
		return model.TeamMember{}, false, roleErr
	}

	allMembers, loadErr := team.loadOrSeed(ctx, ownerID)
	if loadErr != nil {
		return model.TeamMember{}, false, loadErr
	}

	for index := range allMembers {
		if allMembers[index].ID != memberID {
			continue
		}
		if model.CapabilitiesForRole(allMembers[index].Role).CanManageTeam &&
			!model.CapabilitiesForRole(role).CanManageTeam &&
			!otherManagingMemberExists(allMembers, memberID) {
			return model.TeamMember{}, false, ErrLastTeamManager
		}
		allMembers[index].Role = role
		if saveErr := team.save(ctx, ownerID, allMembers); saveErr != nil {
			return model.TeamMember{}, false, saveErr
		}
		team.notifier.Success(ownerID, notificationTitleMemberUpdated, notificationMessageMemberUpdated)
		return allMembers[index], true, nil
	}
	return model.TeamMember{}, false, nil
}

// Remove deletes the identified member. An absent identifier is a silent
// no-op. Removing the roster's only managing member is rejected.
func (team *Team) Remove(ctx context.Context, ownerID string, memberID string) error {
	allMembers, loadErr := team.loadOrSeed(ctx, ownerID)
	if loadErr != nil {
		return loadErr
	}

	remaining := make([]model.TeamMember, 0, len(allMembers))
	removed := false
	var removedMember model.TeamMember
	for _, member := range allMembers {
		if member.ID == memberID {
			removed = true
			removedMember = member
			continue
		}
		remaining = append(remaining, member)
	}
	if !removed {
		return nil
	}
	if model.CapabilitiesForRole(removedMember.Role).CanManageTeam &&
		!otherManagingMemberExists(allMembers, memberID) {
		return ErrLastTeamManager
	}

	if saveErr := team.save(ctx, ownerID, remaining); saveErr != nil {
		return saveErr
	}

	team.notifier.Success(ownerID, notificationTitleMemberRemoved, notificationMessageMemberRemoved)
	return nil
}

func otherManagingMemberExists(allMembers []model.TeamMember, excludedID string) bool {
	for _, member := range allMembers {
		if member.ID == excludedID {
			continue
		}
		if model.CapabilitiesForRole(member.Role).CanManageTeam {
			return true
		}
	}
	return false
}

func (team *Team) loadOrSeed(ctx context.Context, ownerID string) ([]model.TeamMember, error) {
	var allMembers []model.TeamMember
	populated, loadErr := store.Load(ctx, team.persistedStore, ownerID, store.KeyTeam, &allMembers)
	if loadErr != nil {
		return nil, loadErr
	}
	if !populated {
		return model.DemoTeamMembers(), nil
	}
	if allMembers == nil {
		allMembers = []model.TeamMember{}
	}
	return allMembers, nil
}

func (team *Team) save(ctx context.Context, ownerID string, allMembers []model.TeamMember) error {
	if saveErr := team.persistedStore.Set(ctx, ownerID, store.KeyTeam, allMembers); saveErr != nil {
		team.logger.Warn(logEventSaveTeam, zap.Error(saveErr))
		return saveErr
	}
	return nil
}
