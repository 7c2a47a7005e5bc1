package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUser   = "auth_user"
	ContextKeyUserID = "auth_user_id"
	ContextKeyRole   = "auth_role"
)

// Middleware authenticates HTTP requests with Bearer access tokens.
type Middleware struct {
	service *Service
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAuth rejects requests without a valid Bearer access token and
// stores the authenticated user in the Gin context.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := m.userFromBearer(c)
		if user == nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyRole, user.Role)
		c.Next()
	}
}

// RequireAdmin rejects authenticated requests from non-admin users.
// Must run after RequireAuth.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin access required",
			})
			return
		}
		c.Next()
	}
}

// userFromBearer extracts and validates the Bearer token, if any.
func (m *Middleware) userFromBearer(c *gin.Context) *entities.User {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}

	user, err := m.service.UserFromAccessToken(parts[1])
	if err != nil {
		return nil
	}
	return user
}

// CurrentUser returns the authenticated user stored by RequireAuth,
// or nil when the request is unauthenticated.
func CurrentUser(c *gin.Context) *entities.User {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := value.(*entities.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID returns the authenticated user's ID, or 0 when unauthenticated.
func GetUserID(c *gin.Context) uint {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0
	}
	id, ok := value.(uint)
	if !ok {
		return 0
	}
	return id
}
