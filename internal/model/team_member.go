package model

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	memberEmailMaxLength = 320

	avatarSeedURLPattern = "https://api.dicebear.com/7.x/avataaars/svg?seed=%s"
	joinedDateLayout     = "2006-01-02"
)

var (
	ErrInvalidMemberEmail = errors.New("invalid_member_email")
)

// TeamMember is one collaborator on the workspace.
type TeamMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar"`
	JoinedDate string `json:"joinedDate"`
}

// TeamMemberInput holds the raw values used to construct a TeamMember.
type TeamMemberInput struct {
	Email string
	Role  string
}

// NewTeamMember constructs a member from an invite. The display name is the
// email local-part and the avatar is seeded from the full address.
func NewTeamMember(input TeamMemberInput, now time.Time) (TeamMember, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || len(email) > memberEmailMaxLength {
		return TeamMember{}, fmt.Errorf("%w: empty or too long", ErrInvalidMemberEmail)
	}
	if _, parseErr := mail.ParseAddress(email); parseErr != nil {
		return TeamMember{}, fmt.Errorf("%w: %v", ErrInvalidMemberEmail, parseErr)
	}

	role, roleErr := NormalizeRole(input.Role)
	if roleErr != nil {
		return TeamMember{}, roleErr
	}

	localPart := email
	if atIndex := strings.Index(email, "@"); atIndex >= 0 {
		localPart = email[:atIndex]
	}

	return TeamMember{
		ID:         uuid.NewString(),
		Name:       localPart,
		Email:      email,
		Role:       role,
		Avatar:     fmt.Sprintf(avatarSeedURLPattern, email),
		JoinedDate: now.UTC().Format(joinedDateLayout),
	}, nil
}
