package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "focustracker/internal/errors"
	"focustracker/internal/service"
)

const TokenIDContextKey = "tokenID"

// Auth requires a bearer token when the auth service is enabled and lets
// every request through otherwise. EventSource clients cannot set headers,
// so a token query parameter is accepted as well.
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			return
		}

		tokenID, apiErr := authService.ParseToken(token)
		if apiErr != nil {
			writeError(c, apiErr)
			return
		}

		c.Set(TokenIDContextKey, tokenID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("access_token"); token != "" {
			return token, true
		}
		writeError(c, apperrors.Unauthorized("missing authorization header"))
		return "", false
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(c, apperrors.Unauthorized("invalid authorization format"))
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		writeError(c, apperrors.Unauthorized("invalid authorization format"))
		return "", false
	}
	return token, true
}

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error": gin.H{
			"code":    apiErr.Code,
			"message": apiErr.Message,
			"details": apiErr.Details,
		},
	})
}
