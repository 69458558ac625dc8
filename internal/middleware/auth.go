package middleware

import (
	"strings"

	"github.com/Achintya-Chatterjee/task-management-api/internal/constants"
	apierrors "github.com/Achintya-Chatterjee/task-management-api/internal/errors"
	"github.com/Achintya-Chatterjee/task-management-api/internal/repository"
	"github.com/Achintya-Chatterjee/task-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RequireAuth verifies the bearer token and resolves it to a live user
// before any task operation runs. This is the single enforcement point for
// every protected route: the token must verify and the user it names must
// still exist (a token can outlive its user since tokens are not revocable).
func RequireAuth(tokens *services.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, constants.BearerPrefix)
		if !ok || raw == "" {
			apierrors.Unauthorized(c, "Not authorized, no token")
			c.Abort()
			return
		}

		identity, err := tokens.Verify(raw)
		if err != nil {
			apierrors.Unauthorized(c, "Not authorized")
			c.Abort()
			return
		}

		user, err := users.FindByID(identity.ID)
		if err != nil {
			apierrors.Unauthorized(c, "Not authorized, user not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserEmail, user.Email)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
