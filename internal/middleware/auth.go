// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/geomarket/internal/i18n"
	"github.com/javajoker/geomarket/internal/models"
	"github.com/javajoker/geomarket/internal/utils"
)

// AuthRequired validates the bearer token and stores the subject and role
// in the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			return
		}

		claims, err := utils.ValidateJWT(strings.TrimSpace(parts[1]))
		if err != nil {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthTokenExpired))
			return
		}

		c.Set(utils.ContextKeySubjectID, claims.SubjectID)
		c.Set(utils.ContextKeyRole, claims.Role)
		c.Next()
	}
}

// RoleRequired must run after AuthRequired.
func RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, exists := utils.GetRoleFromContext(c)
		if !exists || got != string(role) {
			utils.ForbiddenResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthWrongRole, role))
			return
		}
		c.Next()
	}
}

func UserRequired() []gin.HandlerFunc {
	return []gin.HandlerFunc{AuthRequired(), RoleRequired(models.RoleUser)}
}

func MerchantRequired() []gin.HandlerFunc {
	return []gin.HandlerFunc{AuthRequired(), RoleRequired(models.RoleMerchant)}
}
