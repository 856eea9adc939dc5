package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var subjectClaims = []string{"email", "username", "name", "sub"}

// Subject returns a display name carried by the token claims.
// The signature is not verified: the value is only shown to the user and never trusted.
func Subject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}

	for _, key := range subjectClaims {
		if value, ok := claims[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}

	return ""
}
