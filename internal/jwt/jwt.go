// Package jwt signs and validates the HS256 access tokens.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTParams are the claims carried by an access token.
type JWTParams struct {
	Role   string
	UserID string
}

const (
	JWTDuration = time.Hour

	// DefaultKID is the key id used when no secret version is configured.
	DefaultKID = "1"
)

// GenerateJWT signs an access token. The secret version goes into the
// kid header so rotation can be validated on the way back in.
func GenerateJWT(params JWTParams, secret []byte, version string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  params.UserID,
		"role": params.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(JWTDuration).Unix(),
	})
	token.Header["kid"] = version

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateJWT parses a token, requiring HS256 and a kid header that
// matches the configured secret version.
func ValidateJWT(rawToken, version string, secret []byte) (*jwt.Token, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing kid header")
		}
		if kid != version {
			return nil, fmt.Errorf("unexpected kid %q", kid)
		}
		return secret, nil
	}

	return jwt.Parse(rawToken, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}
