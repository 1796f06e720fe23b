package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookshelfapp/bookshelf/internal/entities"
)

// ContextKeyActor is the Gin context key under which the middleware
// stores the request's *entities.Actor (absent for anonymous requests).
const ContextKeyActor = "auth_actor"

// Middleware applies the access policy before routing. It works from
// session claims alone — no database lookups — so a stale or forged
// cookie can at worst reach a handler that re-checks against fresh data.
type Middleware struct {
	sessions *SessionManager
}

// NewMiddleware creates the pre-routing policy middleware.
func NewMiddleware(sessions *SessionManager) *Middleware {
	return &Middleware{sessions: sessions}
}

// Handler evaluates Decide for every request and either lets it through
// with the actor stored in the context, or turns the denial into a
// sign-in redirect (browser navigation) or a structured JSON error (API
// calls).
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := m.sessions.Actor(c.Request)
		if actor != nil {
			c.Set(ContextKeyActor, actor)
		}

		switch Decide(c.Request.Method, c.Request.URL.Path, actor) {
		case Allow:
			c.Next()

		case DenyAnonymous:
			if isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"error":   "You must be signed in.",
				})
				return
			}
			c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
			c.Abort()

		case DenyNotAdmin:
			if isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"error":   "Administrator access is required.",
				})
				return
			}
			c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
			c.Abort()
		}
	}
}

// isAPIRequest determines if this is an API request vs web browser navigation.
func isAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}

	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json")
}

// GetActor retrieves the authenticated actor from the Gin context.
// Returns nil for anonymous requests.
func GetActor(c *gin.Context) *entities.Actor {
	if v, exists := c.Get(ContextKeyActor); exists {
		if actor, ok := v.(*entities.Actor); ok {
			return actor
		}
	}
	return nil
}
