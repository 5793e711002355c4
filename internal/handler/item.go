package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/service"
)

// The HTTP surface always uses the history-tracked item operations: every
// change a participant makes through the API lands in the audit trail and
// is broadcast.  The plain ledger operations stay exported on the service
// for internal callers that manage their own auditing.

// AddItem handles POST /v1/orders/:id/participants/:participant_id/items.
func (h *OrderHandler) AddItem(c echo.Context) error {
	var body struct {
		MenuItemID     string                `json:"menu_item_id"`
		Quantity       int                   `json:"quantity"`
		Customizations []model.Customization `json:"customizations"`
		Note           string                `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MenuItemID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "menu_item_id is required"})
	}
	item, err := h.Items.AddItemTracked(c.Request().Context(), service.AddItemInput{
		OrderID:        c.Param("id"),
		ParticipantID:  c.Param("participant_id"),
		MenuItemID:     body.MenuItemID,
		Quantity:       body.Quantity,
		Customizations: body.Customizations,
		Note:           body.Note,
		Caller:         callerRef(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PATCH .../items/:item_id.  Absent fields stay
// unchanged.
func (h *OrderHandler) UpdateItem(c echo.Context) error {
	var body struct {
		Quantity       *int                   `json:"quantity"`
		Customizations *[]model.Customization `json:"customizations"`
		Note           *string                `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	item, err := h.Items.UpdateItemTracked(c.Request().Context(), service.UpdateItemInput{
		OrderID:        c.Param("id"),
		ParticipantID:  c.Param("participant_id"),
		ItemID:         c.Param("item_id"),
		Quantity:       body.Quantity,
		Customizations: body.Customizations,
		Note:           body.Note,
		Caller:         callerRef(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// RemoveItem handles DELETE .../items/:item_id.
func (h *OrderHandler) RemoveItem(c echo.Context) error {
	err := h.Items.RemoveItemTracked(c.Request().Context(),
		c.Param("id"), c.Param("participant_id"), c.Param("item_id"), callerRef(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
