package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type StreakHandler struct {
	svc   *services.StreakService
	stats *services.StatsService
}

func NewStreakHandler(svc *services.StreakService, stats *services.StatsService) *StreakHandler {
	return &StreakHandler{
		svc:   svc,
		stats: stats,
	}
}

type createStreakRequest struct {
	Name      string      `json:"name" binding:"required"`
	Color     string      `json:"color" binding:"required"`
	StartDate domain.Date `json:"start_date"`
}

type colorResponse struct {
	Key   domain.Color      `json:"key"`
	Name  string            `json:"name"`
	Style domain.ColorStyle `json:"style"`
}

type updateStreakRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsActive *bool  `json:"is_active"`
}

func (h *StreakHandler) RegisterRoutes(router *gin.RouterGroup) {
	streaks := router.Group("/streaks")
	{
		streaks.POST("", h.Create)
		streaks.GET("", h.List)
		streaks.GET("/:id", h.Get)
		streaks.GET("/:id/grid", h.Grid)
		streaks.PUT("/:id", h.Update)
		streaks.DELETE("/:id", h.Delete)
	}
	router.GET("/colors", h.Colors)
}

// Colors godoc
// @Summary  List the palette a streak can use
// @Tags     streaks
// @Produce  json
// @Success  200 {array} colorResponse
// @Router   /colors [get]
func (h *StreakHandler) Colors(c *gin.Context) {
	out := make([]colorResponse, 0, len(domain.Colors))
	for _, color := range domain.Colors {
		out = append(out, colorResponse{
			Key:   color,
			Name:  color.DisplayName(),
			Style: color.Style(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary  Create a streak
// @Tags     streaks
// @Accept   json
// @Produce  json
// @Success  201 {object} domain.Streak
// @Router   /streaks [post]
func (h *StreakHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createStreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	streak, err := h.svc.Create(c.Request.Context(), services.CreateStreakInput{
		UserID:    userID,
		Name:      req.Name,
		Color:     req.Color,
		StartDate: req.StartDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, streak)
}

// List godoc
// @Summary  List the caller's streaks with their completions
// @Tags     streaks
// @Produce  json
// @Success  200 {array} domain.Streak
// @Router   /streaks [get]
func (h *StreakHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *StreakHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	streak, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, streak)
}

func (h *StreakHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateStreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	streak, err := h.svc.Update(c.Request.Context(), services.UpdateStreakInput{
		ID:       c.Param("id"),
		UserID:   userID,
		Name:     req.Name,
		Color:    req.Color,
		IsActive: req.IsActive,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, streak)
}

func (h *StreakHandler) Delete(c *gin.Context) {
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

// Grid godoc
// @Summary  Project a streak onto a contribution grid
// @Tags     streaks
// @Produce  json
// @Param    id     path  string true  "Streak ID"
// @Param    size_x query int    false "Columns (weeks)" default(7)
// @Param    size_y query int    false "Rows (days)"     default(7)
// @Param    date   query string false "Last day of the grid, YYYY-MM-DD"
// @Success  200 {object} services.GridView
// @Router   /streaks/{id}/grid [get]
func (h *StreakHandler) Grid(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sizeX, errX := queryInt(c, "size_x", services.DefaultGridSize)
	sizeY, errY := queryInt(c, "size_y", services.DefaultGridSize)
	if errX != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size_x and size_y must be integers"})
		return
	}

	ref, err := queryDate(c, "date")
	if err != nil {
		handleError(c, err)
		return
	}

	grid, err := h.stats.GetGrid(c.Request.Context(), services.GridInput{
		StreakID:      c.Param("id"),
		UserID:        userID,
		SizeX:         sizeX,
		SizeY:         sizeY,
		ReferenceDate: ref,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, grid)
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
