package middleware

import (
	"net/http"
	"strings"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	ContextUserIDKey    = "userID"

	SessionCookieName = "session"
	CSRFCookieName    = "csrftoken"
	CSRFHeaderName    = "X-CSRFToken"
)

// AuthMiddleware accepts a bearer token or the session cookie. Requests that change
// state and rely on the cookie must also echo a CSRF token bound to the same user.
func AuthMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, fromCookie, ok := extractToken(c)
		if !ok {
			return
		}

		userID, err := tokenService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		if fromCookie && !isSafeMethod(c.Request.Method) {
			if err := tokenService.ValidateCSRFToken(userID, c.GetHeader(CSRFHeaderName)); err != nil {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "csrf token missing or invalid"})
				return
			}
		}

		c.Set(ContextUserIDKey, userID)

		c.Next()
	}
}

func extractToken(c *gin.Context) (token string, fromCookie bool, ok bool) {
	authHeader := c.GetHeader(authorizationHeader)
	if authHeader != "" {
		fields := strings.Fields(authHeader)
		if len(fields) < 2 || fields[0] != authorizationType {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return "", false, false
		}
		return fields[1], false, true
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, true, true
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
	return "", false, false
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok
}
