package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing
	"github.com/redis/go-redis/v9"

	"github.com/neotai/Order-page/internal/config"
	"github.com/neotai/Order-page/internal/handler"    // handlers implement the transport mapping
	"github.com/neotai/Order-page/internal/middleware" // identity, rate limit and cache middleware
)

// RegisterRoutes wires the whole order API onto the Echo instance.  The
// identity middleware runs on everything under /v1 so any handler can read
// the caller; the stricter RequireUser / RequireIdentity guards sit on the
// route groups that need them.  Rate limiting covers the endpoints unknown
// callers can hammer (join, create, guest session mint), and the response
// cache covers public reads only.
func RegisterRoutes(e *echo.Echo, h *handler.OrderHandler, jwtSecret string, rdb *redis.Client) {
	// Health check for load balancers; outside /v1 and unauthenticated.
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1 := e.Group("/v1")
	v1.Use(middleware.Identity(jwtSecret))

	// Guest session mint: how a client without an account becomes
	// addressable before joining.
	v1.POST("/guest-sessions", h.NewGuestSession, limiter)

	// Public reads.  The code lookup is what join screens poll, so it gets
	// the response cache.
	v1.GET("/orders", h.ListOrders)
	v1.GET("/orders/:id", h.GetOrder)
	v1.GET("/orders/code/:code", h.GetOrderByCode, cache)
	v1.GET("/orders/:id/summary", h.GetSummary)
	v1.GET("/orders/:id/totals", h.GetTotals)
	v1.GET("/orders/:id/history", h.GetHistory)
	v1.GET("/orders/:id/permission", h.CheckPermission)
	v1.GET("/participants/:participant_id/history", h.GetParticipantHistory)

	// Creator-only lifecycle operations.
	creator := v1.Group("/orders", middleware.RequireUser())
	creator.POST("", h.CreateOrder, limiter)
	creator.PATCH("/:id", h.UpdateOrder)
	creator.POST("/:id/close", h.CloseOrder)
	creator.DELETE("/:id", h.DeleteOrder)

	// Participant operations: any addressable identity.
	member := v1.Group("", middleware.RequireIdentity())
	member.POST("/orders/join", h.JoinOrder, limiter)
	member.DELETE("/orders/:id/participants/:participant_id", h.LeaveOrder)
	member.POST("/orders/:id/participants/:participant_id/items", h.AddItem)
	member.PATCH("/orders/:id/participants/:participant_id/items/:item_id", h.UpdateItem)
	member.DELETE("/orders/:id/participants/:participant_id/items/:item_id", h.RemoveItem)

	// Reporting read models; statistics responses are cacheable.
	v1.GET("/statistics", h.GetStatistics, cache)
	v1.GET("/analytics/popular-items", h.GetPopularItems, cache)

	// Scheduler surface for operational tooling.
	v1.GET("/scheduler", h.GetSchedulerStatus)
	v1.POST("/scheduler/sweep", h.TriggerSweep, middleware.RequireUser())
}
