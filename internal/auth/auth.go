// Package auth holds the credential verifier and the access policy: local
// HMAC tokens carrying an identity snapshot, verified statelessly on every
// request. No store lookup happens at verification time; the token is the
// sole identity source until it expires.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Verification failures. Both collapse to a single 401 at the wire so callers
// cannot probe which check failed.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("admin access required")
)

// Identity is the authenticated subject reconstructed from token claims.
type Identity struct {
	SubjectID   string
	DisplayName string
	Role        string
}

func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }

type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"` // "USER" or "ADMIN"
	jwt.RegisteredClaims
}

type AuthService struct {
	hmac []byte
	ttl  time.Duration
}

func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{hmac: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding the identity snapshot. Only the login path
// calls this; everything else verifies.
func (a *AuthService) Issue(subjectID, displayName, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name: displayName,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    "quizdeck",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

// Verify checks signature and expiry and reconstructs the Identity. Every
// parse failure (bad signature, expired, malformed payload) is reported as
// ErrInvalidCredential without further detail.
func (a *AuthService) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidCredential
	}
	c, ok := token.Claims.(*Claims)
	if !ok || c.Subject == "" {
		return Identity{}, ErrInvalidCredential
	}
	return Identity{SubjectID: c.Subject, DisplayName: c.Name, Role: c.Role}, nil
}

// RequireAuthenticated enforces the "authenticated" policy on a raw
// Authorization header value.
func (a *AuthService) RequireAuthenticated(header string) (Identity, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return Identity{}, ErrMissingCredential
	}
	return a.Verify(strings.TrimPrefix(header, "Bearer "))
}

// RequireAdmin enforces the "authenticated + administrator" policy. A valid
// non-admin identity yields ErrForbidden, distinct from the credential errors
// so callers can map to 403 vs 401.
func (a *AuthService) RequireAdmin(header string) (Identity, error) {
	ident, err := a.RequireAuthenticated(header)
	if err != nil {
		return Identity{}, err
	}
	if !ident.IsAdmin() {
		return Identity{}, ErrForbidden
	}
	return ident, nil
}
