package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshLeeway is how close to expiry a token may get before it is
// refreshed.
const refreshLeeway = 60 * time.Second

// claims are the GoTrue access-token claims the client reads.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenInfo is what the client learns from an access token without
// verifying it. Verification is the server's job; the client only needs
// the expiry and the subject.
type TokenInfo struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// InspectToken decodes the claims of a JWT without checking its signature.
func InspectToken(token string) (*TokenInfo, error) {
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	info := &TokenInfo{Subject: c.Subject, Email: c.Email}
	if c.ExpiresAt != nil {
		info.ExpiresAt = c.ExpiresAt.Time
	}
	return info, nil
}

// needsRefresh reports whether a token expiring at exp should be refreshed
// at now. A zero exp is treated as expired.
func needsRefresh(exp, now time.Time) bool {
	return exp.IsZero() || !now.Add(refreshLeeway).Before(exp)
}
