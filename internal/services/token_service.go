package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Achintya-Chatterjee/task-management-api/internal/constants"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingTokenSecret is returned by NewTokenService when no signing
	// secret is configured. The caller treats it as fatal at startup.
	ErrMissingTokenSecret = errors.New("token signing secret is not configured")
	// ErrInvalidToken covers bad signatures, malformed tokens and expiry.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity is the verified subject of a session token.
type Identity struct {
	ID    string
	Email string
}

// sessionClaims is the internal claims type used for JWT signing and parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenService issues and verifies stateless session tokens. Tokens are
// HS256 signed, carry the user id and email, and expire after 30 days;
// expiry is the only invalidation mechanism.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given signing secret.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingTokenSecret
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    constants.TokenTTL,
		now:    time.Now,
	}, nil
}

// Issue signs a token binding the user id and email.
func (s *TokenService) Issue(userID, email string) (string, error) {
	now := s.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		ID:    userID,
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the identity it asserts.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{ID: claims.ID, Email: claims.Email}, nil
}
