package handler // handler defines the HTTP handlers of the order API

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/neotai/Order-page/internal/middleware"
	"github.com/neotai/Order-page/internal/repository"
	"github.com/neotai/Order-page/internal/service"
)

// OrderHandler bundles the core services behind the HTTP surface.  Handlers
// only do transport work: bind the request, build the identity reference,
// call the core, map the typed error.  All business validation lives in the
// service layer.
type OrderHandler struct {
	Orders       *service.OrderService
	Participants *service.ParticipantService
	Items        *service.ItemService
	History      *service.HistoryService
	Stats        *service.StatsService
	Scheduler    *service.ExpirationScheduler
}

// NewOrderHandler constructs the handler and panics if any dependency is nil.
func NewOrderHandler(orders *service.OrderService, participants *service.ParticipantService, items *service.ItemService, history *service.HistoryService, stats *service.StatsService, scheduler *service.ExpirationScheduler) *OrderHandler {
	if orders == nil || participants == nil || items == nil || history == nil || stats == nil || scheduler == nil {
		panic("nil service passed to NewOrderHandler")
	}
	return &OrderHandler{
		Orders:       orders,
		Participants: participants,
		Items:        items,
		History:      history,
		Stats:        stats,
		Scheduler:    scheduler,
	}
}

// callerRef builds the identity reference the core consumes from whatever
// the identity middleware stored on the context.
func callerRef(c echo.Context) service.IdentityRef {
	return service.IdentityRef{
		UserID:         middleware.UserID(c),
		GuestSessionID: middleware.GuestSession(c),
	}
}

// respondError maps the core's typed failures to HTTP responses.  Expected
// business failures become 4xx with machine readable bodies; anything
// unrecognized is a 500 with a generic body, logged by echo.
func respondError(c echo.Context, err error) error {
	var conflict *service.ConflictError
	var state *service.StateError
	var invalid *service.ValidationError

	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	case errors.Is(err, repository.ErrMenuNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "menu not found"})
	case errors.Is(err, repository.ErrMenuItemNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
	case errors.Is(err, service.ErrParticipantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "participant not found"})
	case errors.Is(err, service.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order item not found"})
	case errors.Is(err, service.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": "capacity_exceeded"})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "reason": conflict.Reason})
	case errors.As(err, &state):
		body := echo.Map{"error": "order_not_modifiable", "status": state.Status, "reason": state.Reason}
		if state.Remaining > 0 {
			body["remaining_seconds"] = int(state.Remaining.Seconds())
		}
		return c.JSON(http.StatusConflict, body)
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "reason": invalid.Reason})
	case errors.Is(err, repository.ErrCodeExhausted):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "try again later"})
	}
	c.Logger().Errorf("unexpected error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// pageParams reads ?page and ?limit with the API defaults (1, 20).
func pageParams(c echo.Context) (page, limit int) {
	page, limit = 1, 20
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}
