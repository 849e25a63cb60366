package middleware

import (
	"net/http"
	"strings"

	"banquet-backoffice/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const identityKey = "auth.identity"

// Claims carried by back-office access tokens.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Auth guards admin routes with a Bearer HS256 token signed by the
// configured secret. Public routes (the preregistration submission) are not
// behind this middleware.
func Auth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !parsed.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(identityKey, claims.Subject)
		c.Next()
	}
}

// Identity returns the authenticated subject, or "" on public routes.
func Identity(c *gin.Context) string {
	v, _ := c.Get(identityKey)
	s, _ := v.(string)
	return s
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   msg,
	})
}
