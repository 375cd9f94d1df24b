package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SubjectKey is the gin context key under which the authenticated subject
// is stored.
const SubjectKey = "auth.subject"

// RequireToken is a gin middleware that rejects requests without a valid
// Bearer token.
func RequireToken(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "missing authorization header"}})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "authorization header must be a bearer token"}})
			return
		}

		subject, err := tokens.Parse(parts[1])
		if err != nil {
			log.WithError(err).Debug("Rejected request with invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "invalid or expired token"}})
			return
		}

		c.Set(SubjectKey, subject)
		c.Next()
	}
}
