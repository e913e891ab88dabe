package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type CompletionHandler struct {
	svc *services.CompletionService
}

func NewCompletionHandler(svc *services.CompletionService) *CompletionHandler {
	return &CompletionHandler{
		svc: svc,
	}
}

type createCompletionRequest struct {
	StreakID      string      `json:"streak" binding:"required"`
	DateCompleted domain.Date `json:"date_completed"`
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	completions := router.Group("/completions")
	{
		completions.POST("", h.Create)
		completions.GET("", h.ListByStreak)
		completions.GET("/:id", h.Get)
		completions.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary  Mark a streak as done on a day (today when date_completed is omitted)
// @Tags     completions
// @Accept   json
// @Produce  json
// @Success  201 {object} domain.Completion
// @Failure  409 {object} map[string]string "already completed that day"
// @Router   /completions [post]
func (h *CompletionHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	completion, err := h.svc.Create(c.Request.Context(), services.CreateCompletionInput{
		StreakID:      req.StreakID,
		UserID:        userID,
		DateCompleted: req.DateCompleted,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, completion)
}

func (h *CompletionHandler) ListByStreak(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	streakID := c.Query("streak_id")
	if streakID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "streak_id query param required"})
		return
	}

	list, err := h.svc.ListByStreakID(c.Request.Context(), streakID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CompletionHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	completion, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, completion)
}

func (h *CompletionHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
