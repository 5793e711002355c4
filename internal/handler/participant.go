package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neotai/Order-page/internal/service"
	"github.com/neotai/Order-page/internal/utils"
)

// JoinOrder handles POST /v1/orders/join.  The caller's identity comes from
// the middleware (token or guest session header), never from the body.
func (h *OrderHandler) JoinOrder(c echo.Context) error {
	var body struct {
		Code     string `json:"code"`
		Nickname string `json:"nickname"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	o, p, err := h.Participants.Join(c.Request().Context(), service.JoinInput{
		Code:     body.Code,
		Nickname: body.Nickname,
		Identity: callerRef(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"order": o, "participant": p})
}

// LeaveOrder handles DELETE /v1/orders/:id/participants/:participant_id.
// Leaving is cleanup and works in any order status.  A participant may only
// remove themselves; the creator may remove anyone.
func (h *OrderHandler) LeaveOrder(c echo.Context) error {
	orderID := c.Param("id")
	participantID := c.Param("participant_id")

	o, err := h.Orders.Get(c.Request().Context(), orderID)
	if err != nil {
		return respondError(c, err)
	}
	ref := callerRef(c)
	if p := o.Participant(participantID); p != nil {
		if !p.Owns(ref.UserID, ref.GuestSessionID) && o.CreatorID != ref.UserID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	updated, err := h.Participants.Leave(c.Request().Context(), orderID, participantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// NewGuestSession handles POST /v1/guest-sessions.  Clients without an
// account call it once and present the returned id in the X-Guest-Session
// header from then on.
func (h *OrderHandler) NewGuestSession(c echo.Context) error {
	id, err := utils.NewGuestSessionID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"guest_session": id})
}
