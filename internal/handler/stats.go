package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetStatistics handles GET /v1/statistics.
func (h *OrderHandler) GetStatistics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Stats.Statistics(c.Request().Context()))
}

// GetPopularItems handles GET /v1/analytics/popular-items?limit=N, ranking
// menu items by quantity across finished orders.
func (h *OrderHandler) GetPopularItems(c echo.Context) error {
	limit := 10
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	return c.JSON(http.StatusOK, echo.Map{"items": h.Stats.PopularItems(c.Request().Context(), limit)})
}

// GetTotals handles GET /v1/orders/:id/totals, the who-owes-what view.
func (h *OrderHandler) GetTotals(c echo.Context) error {
	totals, err := h.Stats.Totals(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, totals)
}
