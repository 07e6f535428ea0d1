package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry peeks at a JWT-shaped token and reports its expiry claim. The
// signature is NOT verified; the result is advisory (audit metadata,
// proactive revalidation scheduling) and must never gate an access-control
// decision. Tokens that are not JWTs, or carry no exp claim, report ok=false
// and stay fully opaque to the rest of the module.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
