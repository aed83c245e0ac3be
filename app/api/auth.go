package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxUserIDKey = "user_id"

// OptionalAuth resolves the caller's identity from a bearer token when
// one is presented. Token issuance lives outside this service; only
// HS256 verification against the shared secret happens here. Absent or
// invalid tokens leave the request anonymous.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			slog.Debug("Invalid bearer token, treating request as anonymous", "error", err)
			c.Next()
			return
		}

		if claims, ok := token.Claims.(*jwt.RegisteredClaims); ok && claims.Subject != "" {
			c.Set(ctxUserIDKey, claims.Subject)
		}

		c.Next()
	}
}

// RequireAuth guards endpoints that need an authenticated user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's identity, or "" for
// anonymous requests.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}
