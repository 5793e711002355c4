package service

import (
	"context"

	"github.com/neotai/Order-page/internal/queue"
)

// Broadcaster is the outbound boundary the core notifies after every
// committed mutation.  The real transport (AMQP, sockets) lives outside the
// core; implementations must be safe to call while an order's mutation lock
// is held, so they may only enqueue, never block on network I/O.
type Broadcaster interface {
	// BroadcastToOrder delivers an event to everyone subscribed to the
	// given order.
	BroadcastToOrder(ctx context.Context, orderID string, ev queue.OrderEvent) error
	// SendToUser delivers a point-to-point message to one registered user.
	SendToUser(ctx context.Context, userID string, ev queue.OrderEvent) error
}

// NopBroadcaster discards all events.  It is wired in when no broker is
// configured so the core never has to nil-check its broadcaster.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastToOrder(context.Context, string, queue.OrderEvent) error {
	return nil
}

func (NopBroadcaster) SendToUser(context.Context, string, queue.OrderEvent) error {
	return nil
}
