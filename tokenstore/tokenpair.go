package tokenstore

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Pair holds the access and refresh tokens issued to a user by the identity
// provider. Both tokens carry their own expiry in their encoded claims; the
// provider validated their signatures at issuance time, so this store only
// ever reads claims unverified.
type Pair struct {
	AccessToken  string
	RefreshToken string
	ObtainedAt   time.Time
}

// AccessExpired reports whether the access token's embedded expiry has passed.
// A token whose expiry cannot be read is treated as expired.
func (p *Pair) AccessExpired() bool {
	exp, err := tokenExpiry(p.AccessToken)
	if err != nil {
		return true
	}
	return NowTimeFunc().After(exp)
}

// RefreshExpired reports whether the refresh token's embedded expiry has passed.
func (p *Pair) RefreshExpired() bool {
	exp, err := tokenExpiry(p.RefreshToken)
	if err != nil {
		return true
	}
	return NowTimeFunc().After(exp)
}

// Roles extracts the realm roles from the access token's claims. A missing or
// malformed claim yields no roles rather than an error.
func (p *Pair) Roles() []string {
	claims, err := unverifiedClaims(p.AccessToken)
	if err != nil {
		return nil
	}
	realmAccess, ok := claims["realm_access"].(map[string]any)
	if !ok {
		return nil
	}
	rawRoles, ok := realmAccess["roles"].([]any)
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(rawRoles))
	for _, r := range rawRoles {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}

// HasRole reports whether the access token carries the given realm role.
func (p *Pair) HasRole(role string) bool {
	for _, r := range p.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

func tokenExpiry(rawToken string) (time.Time, error) {
	claims, err := unverifiedClaims(rawToken)
	if err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errors.New("token missing exp claim")
	}
	return time.Unix(int64(exp), 0), nil
}

func unverifiedClaims(rawToken string) (jwtlib.MapClaims, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}
	return claims, nil
}
