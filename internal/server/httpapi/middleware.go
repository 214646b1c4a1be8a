package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"thesisarchive/internal/common"
)

const (
	ctxKeyAccount = "account"
	ctxKeyToken   = "sessionToken"
)

// bearerToken extracts the token from the Authorization header. Returns ""
// when the header is missing or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// authRequired validates the bearer token against the session store and
// stashes the account and raw token in the request context. Every rejection
// is the same 401 regardless of cause.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		account, err := s.identity.CheckSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			} else {
				s.logger.Error(c.Request.Context(), "session check failed", "error", err.Error())
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
			}
			c.Abort()
			return
		}

		c.Set(ctxKeyAccount, account)
		c.Set(ctxKeyToken, token)
		c.Next()
	}
}
