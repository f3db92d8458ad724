package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/hvngo/shop-backend/internal/errors"
	"github.com/hvngo/shop-backend/pkg/logger"
	"github.com/hvngo/shop-backend/pkg/redis"
	"github.com/hvngo/shop-backend/pkg/util"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextRoleKey     = "role"
)

// RequireAuth validates the Bearer token, rejects revoked tokens and stores
// the caller's identity on the request context.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Authorization header must be a Bearer token")
			c.Abort()
			return
		}

		revoked, err := redis.IsTokenRevoked(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to check token revocation", err, nil)
		}
		if revoked {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Token has been revoked")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, jwtSecret)
		if err != nil {
			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token has expired")
			} else {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token")
			}
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole allows only callers whose token carries one of the given roles.
// Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRoleKey)
		if !exists {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzRoleNotFound, "No role found on request")
			c.Abort()
			return
		}

		roleStr, _ := role.(string)
		for _, allowed := range roles {
			if roleStr == allowed {
				c.Next()
				return
			}
		}

		logger.Warn("Access denied: insufficient role", map[string]interface{}{
			"role": roleStr,
			"path": c.Request.URL.Path,
		})
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzForbidden, "Insufficient permissions")
		c.Abort()
	}
}

// GetUserID returns the authenticated user's id from the request context.
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

func GetUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextUsernameKey)
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	return username, ok
}

func GetUserRole(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextRoleKey)
	if !exists {
		return "", false
	}
	role, ok := value.(string)
	return role, ok
}
