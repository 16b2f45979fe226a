package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/creativehub205/ladies-tailor-shop/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Context keys
const (
	RequestIDKey = "request_id"
	ClaimsKey    = "claims"
)

// Authenticator resolves a bearer token to its session claims
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Claims, error)
}

// BearerAuth requires a valid session token. A missing token is rejected
// with 401, an invalid, expired or revoked one with 403.
func BearerAuth(auth Authenticator, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, session.ErrRevokedToken) {
				log.WithError(err).WithField("request_id", c.GetString(RequestIDKey)).Warn("Rejected session token")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "Invalid or expired token",
				})
				return
			}
			log.WithError(err).Error("Failed to check session token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Database error",
			})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetClaims returns the session claims stored by BearerAuth
func GetClaims(c *gin.Context) (*session.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*session.Claims)
	return claims, ok
}
