// Package queue defines the sanitized payloads the order core emits over
// the message broker, plus the AMQP publisher and the background consumer
// that turns events into log lines.
package queue

import (
	"time"

	"github.com/neotai/Order-page/internal/model"
)

// EventType enumerates the order-scoped events the core broadcasts.
type EventType string

const (
	EventOrderCreated      EventType = "order_created"
	EventOrderUpdated      EventType = "order_updated"
	EventOrderClosed       EventType = "order_closed"
	EventOrderExpired      EventType = "order_expired"
	EventItemAdded         EventType = "item_added"
	EventItemUpdated       EventType = "item_updated"
	EventItemRemoved       EventType = "item_removed"
	EventParticipantJoined EventType = "participant_joined"
	EventParticipantLeft   EventType = "participant_left"
)

// OrderEvent is one sanitized change notification scoped to a single order.
// Payloads are reduced before they reach this struct: no identity references
// and no internal-only fields ever cross the broadcaster boundary.  The
// participant field is present for item and participant events only.
type OrderEvent struct {
	Type        EventType           `json:"type"`
	OrderID     string              `json:"order_id"`
	Order       *OrderPayload       `json:"order,omitempty"`
	Participant *ParticipantPayload `json:"participant,omitempty"`
	Description string              `json:"description,omitempty"`
	OccurredAt  string              `json:"occurred_at"`
}

// OrderPayload is the subset of an order that subscribers may see.
type OrderPayload struct {
	ID               string             `json:"id"`
	Code             string             `json:"code"`
	Title            string             `json:"title"`
	Status           string             `json:"status"`
	Deadline         *time.Time         `json:"deadline,omitempty"`
	AllowModify      bool               `json:"allow_modification"`
	MaxParticipants  *int               `json:"max_participants,omitempty"`
	ParticipantCount int                `json:"participant_count"`
	Summary          model.OrderSummary `json:"summary"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	ClosedAt         *time.Time         `json:"closed_at,omitempty"`
}

// ParticipantPayload is the subset of a participant that subscribers may
// see.  Identity references (user id, guest session) are stripped.
type ParticipantPayload struct {
	ID               string    `json:"id"`
	Nickname         string    `json:"nickname"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	ItemCount        int       `json:"item_count"`
	JoinedAt         time.Time `json:"joined_at"`
	LastModifiedAt   time.Time `json:"last_modified_at"`
}

// SanitizeOrder reduces an order aggregate to its broadcastable subset.
func SanitizeOrder(o *model.Order) *OrderPayload {
	return &OrderPayload{
		ID:               o.ID,
		Code:             o.Code,
		Title:            o.Title,
		Status:           string(o.Status),
		Deadline:         o.Deadline,
		AllowModify:      o.Settings.AllowModification,
		MaxParticipants:  o.Settings.MaxParticipants,
		ParticipantCount: len(o.Participants),
		Summary:          *o.Summary.Clone(),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		ClosedAt:         o.ClosedAt,
	}
}

// SanitizeParticipant reduces a participant to its broadcastable subset.
func SanitizeParticipant(p *model.Participant) *ParticipantPayload {
	return &ParticipantPayload{
		ID:               p.ID,
		Nickname:         p.Nickname,
		TotalAmountCents: p.TotalAmountCents,
		ItemCount:        len(p.Items),
		JoinedAt:         p.JoinedAt,
		LastModifiedAt:   p.LastModifiedAt,
	}
}
