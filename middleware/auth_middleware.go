package middleware

import (
	"net/http"
	"strings"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/util"
	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			util.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format")
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			util.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		if !auth.ValidRole(claims.Role) {
			util.ErrorResponse(c, http.StatusForbidden, "Unknown role")
			c.Abort()
			return
		}

		auth.SetCurrentUser(c, auth.CurrentUser{ID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.FromContext(c)
		if !ok || !user.IsStaff() {
			util.ErrorResponse(c, http.StatusForbidden, "Staff access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
