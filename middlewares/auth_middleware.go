package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/dineorder/models"
	"github.com/yeremiapane/dineorder/utils"
)

// Context keys set by RequireLogined.
const (
	CtxUserID = "userId"
	CtxRole   = "role"
)

// RequireLogined verifies the access token and attaches the decoded
// identity to the request context.
func RequireLogined(tm *utils.TokenMaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			utils.RespondWithError(c, utils.NewAuthError("access token missing"))
			c.Abort()
			return
		}

		claims, err := tm.VerifyAccessToken(token)
		if err != nil {
			utils.RespondWithError(c, utils.NewAuthError("invalid access token"))
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireOwner allows only Owner accounts. Must run after RequireLogined.
func RequireOwner() gin.HandlerFunc {
	return requireRole(models.RoleOwner)
}

// RequireOwnerOrEmployee allows any staff account.
func RequireOwnerOrEmployee() gin.HandlerFunc {
	return requireRole(models.RoleOwner, models.RoleEmployee)
}

// RequireGuest allows only guest tokens.
func RequireGuest() gin.HandlerFunc {
	return requireRole(models.RoleGuest)
}

func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		utils.RespondWithError(c, utils.NewAuthError("you do not have permission"))
		c.Abort()
	}
}

// PauseCheck answers 403 on guarded endpoints while the pause switch is
// on, e.g. during a menu overhaul.
func PauseCheck(paused bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if paused {
			utils.RespondWithError(c, utils.NewForbiddenError("this feature is temporarily disabled"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header, empty
// when the header is missing or not a bearer scheme.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return token
}
