// backend/internal/middleware/auth.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ayash-Bera/kuna/backend/internal/auth"
	"github.com/Ayash-Bera/kuna/backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenResolver turns a bearer token into an identity
type TokenResolver interface {
	CurrentIdentity(token string) (*auth.Identity, error)
	RequireAdmin(token string) (*auth.Identity, error)
}

// RequireAuth accepts any valid token whose identity is still known
func RequireAuth(resolver TokenResolver) gin.HandlerFunc {
	return bearer(resolver.CurrentIdentity)
}

// RequireAdmin additionally requires the admin role
func RequireAdmin(resolver TokenResolver) gin.HandlerFunc {
	return bearer(resolver.RequireAdmin)
}

func bearer(resolve func(string) (*auth.Identity, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			Unauthorized(c)
			return
		}

		identity, err := resolve(token)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrForbidden):
			utils.AbortWithError(c, http.StatusForbidden, "Not enough permissions")
			return
		default:
			Unauthorized(c)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// Unauthorized writes the generic 401 with a Bearer challenge
func Unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	utils.AbortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
}

// IdentityFrom returns the identity stored by RequireAuth or RequireAdmin
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
