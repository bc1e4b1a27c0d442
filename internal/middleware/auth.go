package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/platform/apierr"
	"github.com/darekanikki/diary-backend/internal/services"
)

type AuthMiddleware struct {
	log  *logger.Logger
	auth services.AuthService
}

func NewAuthMiddleware(baseLog *logger.Logger, auth services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: baseLog.With("middleware", "AuthMiddleware"), auth: auth}
}

// RequireAPI guards the admin JSON endpoints.
func (am *AuthMiddleware) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.authenticated(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Unauthorized", "code": apierr.CodeUnauthorized},
			})
			return
		}
		c.Next()
	}
}

// RequirePage guards the admin HTML pages, bouncing anonymous
// visitors to the login form.
func (am *AuthMiddleware) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.authenticated(c) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// authenticated accepts either the raw admin token (header or query)
// or a session cookie issued by the login form.
func (am *AuthMiddleware) authenticated(c *gin.Context) bool {
	if am.auth == nil || !am.auth.Enabled() {
		return false
	}
	if token := extractAdminToken(c); token != "" {
		return am.auth.VerifyToken(token)
	}
	if session, err := c.Cookie(services.AdminSessionCookie); err == nil && session != "" {
		return am.auth.VerifySession(session)
	}
	return false
}

func extractAdminToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
