package finmind

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is display-only metadata decoded from the access token.
// The server mints JWTs, but the client never verifies them: gating stays
// presence-based and expiry is only ever surfaced as a failed API call.
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// DecodeTokenInfo decodes the claims of a bearer token WITHOUT verifying
// its signature. Use it only to present session details to the user.
func DecodeTokenInfo(token string) (*TokenInfo, error) {
	parser := jwt.NewParser()

	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, ErrUnableToDecodeToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnableToMapClaims
	}

	info := &TokenInfo{}

	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}

	return info, nil
}
