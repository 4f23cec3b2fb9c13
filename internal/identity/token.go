package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer     = "candlelight"
	defaultTokenTTL = 24 * time.Hour
)

var (
	// ErrMissingSigningKey rejects issuer construction without a key.
	ErrMissingSigningKey = errors.New("identity: signing key required")
	// ErrInvalidToken covers every token validation failure.
	ErrInvalidToken = errors.New("identity: invalid token")
)

// SessionClaims is the JWT payload carried by the session cookie.
type SessionClaims struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates session tokens with a shared HMAC key.
type TokenIssuer struct {
	signingKey []byte
	tokenTTL   time.Duration
	clock      func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(signingKey string) (*TokenIssuer, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}
	return &TokenIssuer{
		signingKey: []byte(signingKey),
		tokenTTL:   defaultTokenTTL,
		clock:      time.Now,
	}, nil
}

// WithTTL overrides the token lifetime.
func (issuer *TokenIssuer) WithTTL(tokenTTL time.Duration) *TokenIssuer {
	issuer.tokenTTL = tokenTTL
	return issuer
}

// WithClock overrides the time source.
func (issuer *TokenIssuer) WithClock(clock func() time.Time) *TokenIssuer {
	issuer.clock = clock
	return issuer
}

// Issue signs a session token for the account.
func (issuer *TokenIssuer) Issue(accountID string, email string) (string, error) {
	issuedAt := issuer.clock()
	sessionClaims := SessionClaims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(issuer.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims).SignedString(issuer.signingKey)
}

// Validate parses the token and returns its claims.
func (issuer *TokenIssuer) Validate(signedToken string) (SessionClaims, error) {
	var sessionClaims SessionClaims
	parsedToken, parseErr := jwt.ParseWithClaims(
		signedToken,
		&sessionClaims,
		func(*jwt.Token) (any, error) { return issuer.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(issuer.clock),
	)
	if parseErr != nil || !parsedToken.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	if sessionClaims.AccountID == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	return sessionClaims, nil
}
