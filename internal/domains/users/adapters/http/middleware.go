package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emarket/emarket-api/internal/domains/users/ports"
	"github.com/emarket/emarket-api/internal/shared/respond"
)

// callerKey is the gin context key the resolved user id is stored under.
const callerKey = "auth.user_id"

// RequireSession resolves the Authorization bearer token to a user and aborts
// with 401 when it cannot.
func RequireSession(store ports.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respond.Fail(c, http.StatusUnauthorized, "Unauthenticated.")
			c.Abort()
			return
		}
		userID, err := store.Resolve(c.Request.Context(), token)
		if err != nil {
			respond.Fail(c, http.StatusUnauthorized, "Unauthenticated.")
			c.Abort()
			return
		}
		c.Set(callerKey, userID)
		c.Next()
	}
}

// CallerID returns the user id RequireSession resolved for this request.
func CallerID(c *gin.Context) (int64, bool) {
	value, ok := c.Get(callerKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
