// Package auth issues and checks the signed session cookie.
package auth

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/BearBump/VesselBrief/internal/cache"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const CookieName = "vesselbrief_session"

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
	ErrRevoked        = errors.New("session revoked")
)

type Claims struct {
	GivenNames string `json:"nombres"`
	Country    string `json:"pais"`
	jwt.RegisteredClaims
}

// AccountID parses the subject claim.
func (c *Claims) AccountID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

type Sessions struct {
	secret  []byte
	ttl     time.Duration
	secure  bool
	revoked cache.BytesCache
	now     func() time.Time
}

// NewSessions returns a manager signing with HS256. revoked may be nil, in
// which case logout only clears the cookie.
func NewSessions(secret string, ttl time.Duration, secureCookie bool, revoked cache.BytesCache) (*Sessions, error) {
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 characters")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{
		secret:  []byte(secret),
		ttl:     ttl,
		secure:  secureCookie,
		revoked: revoked,
		now:     time.Now,
	}, nil
}

func (s *Sessions) Issue(accountID uint64, givenNames, country string) (string, error) {
	now := s.now()
	claims := &Claims{
		GivenNames: givenNames,
		Country:    country,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign session")
	}
	return signed, nil
}

func (s *Sessions) Validate(ctx context.Context, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSession, err.Error())
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidSession
	}

	if s.revoked != nil {
		_, hit, err := s.revoked.Get(ctx, revokedKey(claims.ID))
		// Store errors count as not revoked.
		if err == nil && hit {
			return nil, ErrRevoked
		}
	}
	return claims, nil
}

// Revoke blocks the token id until the token would have expired anyway.
func (s *Sessions) Revoke(ctx context.Context, claims *Claims) error {
	if s.revoked == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Set(ctx, revokedKey(claims.ID), []byte("1"), ttl)
}

// FromRequest reads and validates the session cookie.
func (s *Sessions) FromRequest(r *http.Request) (*Claims, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	return s.Validate(r.Context(), c.Value)
}

func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func revokedKey(jti string) string {
	return "session:revoked:" + jti
}
