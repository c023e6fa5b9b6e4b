// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Piyush5621/AnarchyBay/internal/i18n"
	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// ProfileFinder loads the stored account behind a token subject.
type ProfileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// loadProfile resolves the token subject. Roles and the active flag are read
// from the store on every request; the token only proves identity.
func loadProfile(c *gin.Context, profiles ProfileFinder, claims *utils.JWTClaims) (*models.Profile, error) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return profiles.FindByID(c.Request.Context(), id)
}

func setIdentity(c *gin.Context, profile *models.Profile) {
	c.Set("user_id", profile.ID.String())
	c.Set("email", profile.Email)
	c.Set("roles", profile.Roles.Strings())
}

func AuthRequired(profiles ProfileFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		if c.GetHeader("Authorization") == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthTokenExpired))
			c.Abort()
			return
		}

		profile, err := loadProfile(c, profiles, claims)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		case err != nil:
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("Failed to load profile for token")
			utils.InternalErrorResponse(c)
			c.Abort()
			return
		case !profile.IsActive:
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthAccountDisabled))
			c.Abort()
			return
		}

		setIdentity(c, profile)
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid token for an active account is
// present and otherwise lets the request through anonymously.
func OptionalAuth(profiles ProfileFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := utils.ValidateJWT(token); err == nil {
				if profile, err := loadProfile(c, profiles, claims); err == nil && profile.IsActive {
					setIdentity(c, profile)
				}
			}
		}
		c.Next()
	}
}

// RequireRole passes when the caller holds any of roles. Admins always pass.
// It must run after AuthRequired.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.HasRole(c, string(models.RoleAdmin)) {
			c.Next()
			return
		}
		for _, r := range roles {
			if utils.HasRole(c, string(r)) {
				c.Next()
				return
			}
		}
		utils.ForbiddenResponse(c, "")
		c.Abort()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.HasRole(c, string(models.RoleAdmin)) {
			utils.ForbiddenResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAdminAccessDenied))
			c.Abort()
			return
		}
		c.Next()
	}
}
