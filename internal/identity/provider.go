// Package identity implements the local email and password identity
// provider. Accounts live in the relational database; passwords are stored
// only as bcrypt hashes.
package identity

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/storage"
)

const (
	logEventPersistAccount = "persist_account"
	emailLocalPartCutset   = "@"
)

var (
	// ErrInvalidCredentials covers every sign-in failure. Callers present a
	// single message so the response never reveals whether the email exists.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrEmailTaken rejects a sign-up against an existing account.
	ErrEmailTaken = errors.New("identity: email already registered")
	// ErrMissingEmail rejects blank emails before any database work.
	ErrMissingEmail = errors.New("identity: email required")
	// ErrMissingPassword rejects blank passwords before any database work.
	ErrMissingPassword = errors.New("identity: password required")
	// ErrAccountNotFound reports a lookup against an unknown account id.
	ErrAccountNotFound = errors.New("identity: account not found")
)

// Account is the authenticated view of a user handed to callers. It never
// carries the password hash.
type Account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// ProfilePatch carries the editable profile fields. Nil fields stay
// untouched.
type ProfilePatch struct {
	DisplayName *string
	AvatarURL   *string
}

// Provider is the identity contract the HTTP layer depends on.
type Provider interface {
	SignUp(ctx context.Context, email string, password string, displayName string) (Account, error)
	SignIn(ctx context.Context, email string, password string) (Account, error)
	AccountByID(ctx context.Context, accountID string) (Account, error)
	UpdateProfile(ctx context.Context, accountID string, patch ProfilePatch) (Account, error)
}

// LocalProvider is the database-backed Provider implementation.
type LocalProvider struct {
	database   *gorm.DB
	logger     *zap.Logger
	bcryptCost int
}

// NewLocalProvider constructs a LocalProvider.
func NewLocalProvider(database *gorm.DB, logger *zap.Logger) *LocalProvider {
	return &LocalProvider{
		database:   database,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the hashing cost. Tests lower it to keep the
// suite fast.
func (provider *LocalProvider) WithBcryptCost(cost int) *LocalProvider {
	provider.bcryptCost = cost
	return provider
}

// SignUp registers a new account. The display name defaults to the email's
// local part when left blank.
func (provider *LocalProvider) SignUp(ctx context.Context, email string, password string, displayName string) (Account, error) {
	normalizedEmail := normalizeEmail(email)
	if normalizedEmail == "" {
		return Account{}, ErrMissingEmail
	}
	if password == "" {
		return Account{}, ErrMissingPassword
	}

	trimmedDisplayName := strings.TrimSpace(displayName)
	if trimmedDisplayName == "" {
		trimmedDisplayName = emailLocalPart(normalizedEmail)
	}

	var existingCount int64
	countErr := provider.database.WithContext(ctx).Model(&model.User{}).Where("email = ?", normalizedEmail).Count(&existingCount).Error
	if countErr != nil {
		return Account{}, countErr
	}
	if existingCount > 0 {
		return Account{}, ErrEmailTaken
	}

	passwordHash, hashErr := bcrypt.GenerateFromPassword([]byte(password), provider.bcryptCost)
	if hashErr != nil {
		return Account{}, hashErr
	}

	userRecord := model.User{
		ID:           storage.NewID(),
		Email:        normalizedEmail,
		DisplayName:  trimmedDisplayName,
		PasswordHash: string(passwordHash),
	}
	if createErr := provider.database.WithContext(ctx).Create(&userRecord).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return Account{}, ErrEmailTaken
		}
		provider.logger.Warn(logEventPersistAccount, zap.Error(createErr))
		return Account{}, createErr
	}
	return accountFromUser(userRecord), nil
}

// SignIn resolves the account for a matching email and password pair.
func (provider *LocalProvider) SignIn(ctx context.Context, email string, password string) (Account, error) {
	normalizedEmail := normalizeEmail(email)
	if normalizedEmail == "" || password == "" {
		return Account{}, ErrInvalidCredentials
	}

	var userRecord model.User
	lookupErr := provider.database.WithContext(ctx).First(&userRecord, "email = ?", normalizedEmail).Error
	if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if lookupErr != nil {
		return Account{}, lookupErr
	}

	if compareErr := bcrypt.CompareHashAndPassword([]byte(userRecord.PasswordHash), []byte(password)); compareErr != nil {
		return Account{}, ErrInvalidCredentials
	}
	return accountFromUser(userRecord), nil
}

// AccountByID loads an account by its identifier.
func (provider *LocalProvider) AccountByID(ctx context.Context, accountID string) (Account, error) {
	var userRecord model.User
	lookupErr := provider.database.WithContext(ctx).First(&userRecord, "id = ?", accountID).Error
	if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		return Account{}, ErrAccountNotFound
	}
	if lookupErr != nil {
		return Account{}, lookupErr
	}
	return accountFromUser(userRecord), nil
}

// UpdateProfile applies the patch and returns the refreshed account.
func (provider *LocalProvider) UpdateProfile(ctx context.Context, accountID string, patch ProfilePatch) (Account, error) {
	updates := make(map[string]any)
	if patch.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*patch.AvatarURL)
	}
	if len(updates) > 0 {
		updateResult := provider.database.WithContext(ctx).Model(&model.User{}).Where("id = ?", accountID).Updates(updates)
		if updateResult.Error != nil {
			provider.logger.Warn(logEventPersistAccount, zap.Error(updateResult.Error))
			return Account{}, updateResult.Error
		}
		if updateResult.RowsAffected == 0 {
			return Account{}, ErrAccountNotFound
		}
	}
	return provider.AccountByID(ctx, accountID)
}

func accountFromUser(userRecord model.User) Account {
	return Account{
		ID:          userRecord.ID,
		Email:       userRecord.Email,
		DisplayName: userRecord.DisplayName,
		AvatarURL:   userRecord.AvatarURL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailLocalPart(email string) string {
	if separatorIndex := strings.Index(email, emailLocalPartCutset); separatorIndex > 0 {
		return email[:separatorIndex]
	}
	return email
}
