package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetDashboard)
}

// GetDashboard godoc
// @Summary  Aggregate statistics over all of the caller's streaks
// @Tags     stats
// @Produce  json
// @Param    date query string false "Reference day, YYYY-MM-DD (defaults to today)"
// @Success  200 {object} services.Dashboard
// @Router   /stats [get]
func (h *StatsHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ref, err := queryDate(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	dashboard, err := h.svc.GetDashboard(c.Request.Context(), userID, ref)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
