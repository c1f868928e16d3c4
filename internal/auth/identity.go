package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskly/internal/users"
)

// identityKey is the gin context key the authentication filter binds the
// caller's identity under.
const identityKey = "auth.identity"

// Identity is the authenticated caller as request handlers see it. It is
// a plain value distinct from the users.User persistence entity and
// carries no credentials.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     users.Role
}

func (i Identity) HasRole(role users.Role) bool {
	return i.Role == role
}

// BindIdentity attaches the identity to the current request.
func BindIdentity(c *gin.Context, identity Identity) {
	c.Set(identityKey, identity)
}

// CurrentIdentity returns the identity established by the authentication
// filter for this request, if any.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
