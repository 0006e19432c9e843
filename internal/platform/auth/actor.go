package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/CXBuilder/flow-config/internal/platform/access"
)

// ActorFromClaims builds the request actor from verified token claims.
// The group memberships claim drives the derived access level.
func ActorFromClaims(claims jwt.MapClaims, groups access.Groups) access.Actor {
	sub, _ := claims["sub"].(string)
	username, _ := claims["cognito:username"].(string)
	if username == "" {
		// Non-Cognito issuers carry the name in preferred_username.
		username, _ = claims["preferred_username"].(string)
	}

	memberships := access.GroupsFromClaim(claims[access.GroupsClaim])

	return access.Actor{
		Subject:  sub,
		Username: username,
		Level:    access.DeriveLevel(memberships, groups),
	}
}
