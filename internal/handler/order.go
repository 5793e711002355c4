package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/neotai/Order-page/internal/middleware"
	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/service"
)

// CreateOrder handles POST /v1/orders.  Registered users only; the creator
// is taken from the verified token, never from the body.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var body struct {
		MenuID      string               `json:"menu_id"`
		Title       string               `json:"title"`
		Description string               `json:"description"`
		Deadline    *time.Time           `json:"deadline"`
		Settings    *model.OrderSettings `json:"settings"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	o, err := h.Orders.Create(c.Request().Context(), service.CreateOrderInput{
		MenuID:      body.MenuID,
		CreatorID:   middleware.UserID(c),
		Title:       body.Title,
		Description: body.Description,
		Deadline:    body.Deadline,
		Settings:    body.Settings,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// GetOrder handles GET /v1/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	o, err := h.Orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// GetOrderByCode handles GET /v1/orders/code/:code, the entry point behind
// the short join code participants type in.
func (h *OrderHandler) GetOrderByCode(c echo.Context) error {
	o, err := h.Orders.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// UpdateOrder handles PATCH /v1/orders/:id.  Creator only, active orders
// only; nil body fields are left unchanged.
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	var body struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Settings    *model.OrderSettings `json:"settings"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	o, err := h.Orders.Update(c.Request().Context(), c.Param("id"), middleware.UserID(c), service.UpdateOrderInput{
		Title:       body.Title,
		Description: body.Description,
		Settings:    body.Settings,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// CloseOrder handles POST /v1/orders/:id/close.
func (h *OrderHandler) CloseOrder(c echo.Context) error {
	o, err := h.Orders.Close(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// DeleteOrder handles DELETE /v1/orders/:id.  Works in any status; the
// modification history is retained for audit.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	if err := h.Orders.Delete(c.Request().Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOrders handles GET /v1/orders with creator/status/menu/participant/
// date-range filters and page/limit pagination.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	f := service.OrderFilter{
		CreatorID:     c.QueryParam("creator"),
		Status:        model.OrderStatus(c.QueryParam("status")),
		MenuID:        c.QueryParam("menu"),
		ParticipantID: c.QueryParam("participant"),
	}
	if v := c.QueryParam("created_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid created_after format"})
		}
		f.CreatedAfter = &t
	}
	if v := c.QueryParam("created_before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid created_before format"})
		}
		f.CreatedBefore = &t
	}
	f.Page, f.Limit = pageParams(c)

	orders, total, err := h.Orders.Search(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": orders,
		"total": total,
		"page":  f.Page,
		"limit": f.Limit,
	})
}

// GetSummary handles GET /v1/orders/:id/summary.
func (h *OrderHandler) GetSummary(c echo.Context) error {
	o, err := h.Orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o.Summary)
}
