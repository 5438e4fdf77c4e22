package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rentals-api/internal/auth"
)

// RequireAuth rejects requests without a valid Auth-Token header and stores
// the caller identity on the request context.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(auth.TokenHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization denied."})
			return
		}

		identity, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(auth.TokenHeader); raw != "" {
			if identity, err := tokens.Verify(raw); err == nil {
				setIdentity(c, identity)
			}
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, identity auth.Identity) {
	c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
}

func currentIdentity(c *gin.Context) (auth.Identity, bool) {
	return auth.IdentityFrom(c.Request.Context())
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if identity, ok := currentIdentity(c); ok {
			fields["user_id"] = identity.UserID
		}
		logger.WithFields(fields).Info("request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+auth.TokenHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
