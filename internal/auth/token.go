package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"caretrack.org/internal/ids"
)

const defaultIssuer = "caretrack"

// TokenTTL is the fixed validity window: expiry is always issued-at plus this
// duration. Tokens are not revocable within the window; a role change takes
// effect only once outstanding tokens expire.
const TokenTTL = time.Hour

// TokenClaims is the verified content of a bearer token: the subject identity
// and the role snapshot taken at issuance.
type TokenClaims struct {
	IdentityID string
	Role       Role
}

type signedClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bounded bearer tokens.
// Verification is self-contained: no credential-store round-trip.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// TokenOption configures TokenService behavior.
type TokenOption func(*TokenService)

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) {
		if issuer = strings.TrimSpace(issuer); issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) TokenOption {
	return func(s *TokenService) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewTokenService constructs a TokenService with the process-wide signing
// secret. An absent or empty secret is a construction error: the service
// fails closed at startup rather than issue weakly-signed tokens.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is not configured")
	}
	svc := &TokenService{
		secret: []byte(secret),
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Issue signs a token for the identity with its current role embedded.
func (s *TokenService) Issue(identityID string, role Role) (string, time.Time, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return "", time.Time{}, errors.New("auth: identity id is required")
	}

	now := s.now().UTC()
	expiresAt := now.Add(TokenTTL)
	claims := signedClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        ids.New(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and validity window and returns the embedded
// identity and role. The role is the issuance-time snapshot, not a live read.
func (s *TokenService) Verify(token string) (TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenClaims{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &signedClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrExpiredToken
		}
		return TokenClaims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*signedClaims)
	if !ok || !parsed.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.IssuedAt == nil {
		return TokenClaims{}, ErrInvalidToken
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return TokenClaims{}, ErrInvalidToken
	}
	return TokenClaims{IdentityID: claims.Subject, Role: role}, nil
}
