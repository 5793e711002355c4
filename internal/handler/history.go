package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetHistory handles GET /v1/orders/:id/history, the order's audit trail in
// append order.  History survives order deletion, so this intentionally
// does not 404 on unknown order ids: an empty list is a valid answer.
func (h *OrderHandler) GetHistory(c echo.Context) error {
	records := h.History.HistoryForOrder(c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"items": records, "total": len(records)})
}

// GetParticipantHistory handles GET /v1/participants/:participant_id/history,
// everything one participant did across orders.
func (h *OrderHandler) GetParticipantHistory(c echo.Context) error {
	records := h.History.HistoryForParticipant(c.Param("participant_id"))
	return c.JSON(http.StatusOK, echo.Map{"items": records, "total": len(records)})
}

// CheckPermission handles GET /v1/orders/:id/permission.  The participant
// is identified by the participant query parameter; the answer is always
// 200 with an allowed flag and a reason, because "no" is a normal response
// here, not an error.
func (h *OrderHandler) CheckPermission(c echo.Context) error {
	participantID := c.QueryParam("participant")
	if participantID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "participant is required"})
	}
	perm := h.History.CheckModificationPermission(c.Request().Context(), c.Param("id"), participantID)
	return c.JSON(http.StatusOK, perm)
}
