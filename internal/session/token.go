package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read out of the access token itself. The
// backend issues JWTs, but the client never verifies the signature;
// the 11-hour window tracked by the Store stays authoritative.
type TokenInfo struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

var ErrNotAJWT = errors.New("token is not a JWT")

// InspectToken decodes the claims of a JWT access token without
// verifying it. Used for display only (the `session` command).
func InspectToken(token string) (TokenInfo, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return TokenInfo{}, ErrNotAJWT
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return TokenInfo{}, ErrNotAJWT
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
