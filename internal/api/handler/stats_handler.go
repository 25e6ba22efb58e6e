package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

// StatsHandler serves the dashboard statistics.
type StatsHandler struct {
	stats ports.StatsService
}

func NewStatsHandler(stats ports.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard returns the member statistics shown on the admin dashboard.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  domain.DashboardStats
// @Failure      401  {object}  errorResponse
// @Router       /api/dashboard/stats [get]
func (h *StatsHandler) Dashboard(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	stats, err := h.stats.Dashboard(c.Request().Context(), sess.Client())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
