package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

// RequireRoles admits callers whose token carries one of roles. It must run after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "this action requires the "+rolesLabel(roles)+" role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func rolesLabel(roles []models.UserRole) string {
	label := ""
	for i, role := range roles {
		if i > 0 {
			label += " or "
		}
		label += string(role)
	}
	return label
}
