package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetSchedulerStatus handles GET /v1/scheduler, reporting running state and
// last-run bookkeeping for operational tooling.
func (h *OrderHandler) GetSchedulerStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Scheduler.Status())
}

// TriggerSweep handles POST /v1/scheduler/sweep, the manual on-demand sweep.
func (h *OrderHandler) TriggerSweep(c echo.Context) error {
	expired := h.Scheduler.Sweep(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{"expired": expired, "count": len(expired)})
}
