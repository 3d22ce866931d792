// Package token issues and verifies the bearer tokens that stand in
// for server-side sessions. Tokens are stateless: validity is signature
// plus expiry, and a token stays valid until its natural expiry.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pantrybox/pantrybox/internal/model"
)

// ErrInvalidToken covers every verification failure: malformed input,
// wrong signing method, bad signature, or an expired token.
var ErrInvalidToken = errors.New("invalid token")

// Service issues time-limited bearer tokens binding a user identity
// and verifies them on incoming requests. The gate depends only on
// this interface, so a server-side session table could replace the
// JWT implementation without touching callers.
type Service interface {
	Issue(userID, username string) (string, error)
	Verify(tokenString string) (*model.Identity, error)
}

// claims are the signed token payload.
type claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 tokens with a shared secret.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

var _ Service = (*JWTService)(nil)

// NewJWTService creates a JWTService. The secret must be non-empty;
// config enforces that before the service is constructed.
func NewJWTService(secret []byte, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue signs a token for the given user, expiring after the
// configured TTL.
func (s *JWTService) Issue(userID, username string) (string, error) {
	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	return t.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded
// identity. All failures collapse to ErrInvalidToken - no partial
// trust in a token that fails any check.
func (s *JWTService) Verify(tokenString string) (*model.Identity, error) {
	c := &claims{}

	t, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}

	if c.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &model.Identity{
		UserID:   c.UserID,
		Username: c.Username,
	}, nil
}
