package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

var validationErrors = []error{
	domain.ErrStreakNameEmpty,
	domain.ErrStreakNameTooLong,
	domain.ErrStreakInvalidUserID,
	domain.ErrInvalidColor,
	domain.ErrInvalidCompletion,
	domain.ErrInvalidGridSize,
	domain.ErrMalformedDate,
	domain.ErrInvalidEmail,
	domain.ErrInvalidIdentity,
	services.ErrFutureCompletion,
}

var conflictErrors = []error{
	domain.ErrDuplicateCompletion,
	domain.ErrStreakColorTaken,
	domain.ErrEmailAlreadyExists,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func handleError(c *gin.Context, err error) {
	switch {
	case isAny(err, validationErrors):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, services.ErrInvalidCSRFToken):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrStreakNotFound) || errors.Is(err, domain.ErrCompletionNotFound) || errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case isAny(err, conflictErrors):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// currentUser reads the id set by AuthMiddleware, answering 401 when it is absent.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}

// queryDate parses an optional YYYY-MM-DD query parameter; absent means zero.
func queryDate(c *gin.Context, name string) (domain.Date, error) {
	raw := c.Query(name)
	if raw == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(raw)
}
