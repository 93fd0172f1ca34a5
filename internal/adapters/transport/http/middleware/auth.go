package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authsvc "github.com/pmelnyk/currency-service/internal/app/auth/service"
	"github.com/pmelnyk/currency-service/internal/domain/auth/authz"
	"github.com/pmelnyk/currency-service/internal/domain/auth/jwt"
	"github.com/pmelnyk/currency-service/internal/domain/auth/model"
)

const claimsKey = "authClaims"

// AuthRequired verifies the access token and stores its claims on the
// context. The token comes from "Authorization: Bearer ..." or, for
// compatibility with older clients, the x-auth-token header.
func AuthRequired(svc authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("x-auth-token")
		if h := c.GetHeader("Authorization"); h != "" {
			raw = strings.TrimPrefix(h, "Bearer ")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			return
		}

		claims, err := svc.Validate(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole gates a route on plain role membership.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			return
		}
		if err := authz.Authorize(claims.Roles, role); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": string(role) + " permissions required",
			})
			return
		}
		c.Next()
	}
}

func Claims(c *gin.Context) (jwt.AccessClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return jwt.AccessClaims{}, false
	}
	claims, ok := v.(jwt.AccessClaims)
	return claims, ok
}
