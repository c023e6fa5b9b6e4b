// internal/utils/context.go
package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Keys written by the i18n and auth middleware.
const (
	ctxLang   = "lang"
	ctxUserID = "user_id"
	ctxRoles  = "roles"
)

func GetLangFromContext(c *gin.Context) string {
	if lang := c.GetString(ctxLang); lang != "" {
		return lang
	}
	return "en"
}

// GetUserUUID returns uuid.Nil, false when the request is anonymous.
func GetUserUUID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ctxUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetRolesFromContext returns the roles loaded from the caller's profile.
func GetRolesFromContext(c *gin.Context) []string {
	return c.GetStringSlice(ctxRoles)
}

func HasRole(c *gin.Context, role string) bool {
	for _, r := range GetRolesFromContext(c) {
		if r == role {
			return true
		}
	}
	return false
}
