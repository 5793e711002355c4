package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/queue"
	"github.com/neotai/Order-page/internal/repository"
)

// limitedWindow is the remaining-deadline threshold below which a
// modification is still allowed but flagged as limited, so clients can warn
// the participant before the window closes.
const limitedWindow = 5 * time.Minute

// ModificationPermission is the answer to "may this participant still
// change their selection on this order".  When a deadline exists,
// TimeRemainingMin carries the whole minutes left until it.
type ModificationPermission struct {
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
	TimeRemainingMin *int   `json:"time_remaining_min,omitempty"`
	Limited          bool   `json:"limited,omitempty"`
}

// HistoryService owns the append-only modification audit trail and the
// permission window derived from order deadline and settings.  Recording a
// modification and broadcasting it are one step from the caller's point of
// view: Record appends and immediately notifies the broadcaster.
type HistoryService struct {
	orders      *repository.OrderRepo
	mods        *repository.ModificationRepo
	broadcaster Broadcaster
	now         func() time.Time
}

// NewHistoryService wires the history service.  now may be nil, in which
// case time.Now is used; everything else is required.
func NewHistoryService(orders *repository.OrderRepo, mods *repository.ModificationRepo, b Broadcaster, now func() time.Time) *HistoryService {
	if orders == nil || mods == nil || b == nil {
		panic("nil dependency passed to NewHistoryService")
	}
	if now == nil {
		now = time.Now
	}
	return &HistoryService{orders: orders, mods: mods, broadcaster: b, now: now}
}

// CheckModificationPermission reports whether the participant may currently
// modify their items on the order.  A missing order or participant yields a
// not-allowed answer with a reason, not an error: the permission check is a
// read model, and "no" with context is the useful response.
func (s *HistoryService) CheckModificationPermission(ctx context.Context, orderID, participantID string) ModificationPermission {
	o, err := s.orders.Get(orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ModificationPermission{Reason: "order not found"}
		}
		return ModificationPermission{Reason: "order unavailable"}
	}
	return evaluatePermission(o, participantID, s.now())
}

// evaluatePermission is the pure form of the permission check.  Mutating
// flows call it on the snapshot they hold inside the order's critical
// section, so the answer is atomic with the write that follows.
func evaluatePermission(o *model.Order, participantID string, now time.Time) ModificationPermission {
	if o.Status != model.StatusActive {
		return ModificationPermission{Reason: "order is " + string(o.Status)}
	}
	if !o.Settings.AllowModification {
		return ModificationPermission{Reason: "modification disabled"}
	}
	if o.Participant(participantID) == nil {
		return ModificationPermission{Reason: "participant not found"}
	}
	if o.Deadline == nil {
		return ModificationPermission{Allowed: true}
	}
	remaining := o.Deadline.Sub(now)
	if remaining <= 0 {
		return ModificationPermission{Reason: "deadline passed"}
	}
	mins := int(remaining / time.Minute)
	return ModificationPermission{
		Allowed:          true,
		TimeRemainingMin: &mins,
		Limited:          remaining <= limitedWindow,
	}
}

// Record appends one immutable modification record and broadcasts the
// matching event scoped to the order.  Callers invoke it inside the same
// critical section as the mutation it describes; the broadcaster only
// enqueues, so holding the lock across the call is safe.
func (s *HistoryService) Record(ctx context.Context, o *model.Order, p *model.Participant, mtype model.ModificationType, oldValue, newValue any, description string) model.Modification {
	rec := model.Modification{
		ID:            uuid.New().String(),
		OrderID:       o.ID,
		ParticipantID: p.ID,
		Nickname:      p.Nickname,
		Type:          mtype,
		OldValue:      oldValue,
		NewValue:      newValue,
		Description:   description,
		CreatedAt:     s.now(),
	}
	s.mods.Append(&rec)

	_ = s.broadcaster.BroadcastToOrder(ctx, o.ID, queue.OrderEvent{
		Type:        eventTypeFor(mtype),
		OrderID:     o.ID,
		Order:       queue.SanitizeOrder(o),
		Participant: queue.SanitizeParticipant(p),
		Description: description,
		OccurredAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
	})
	return rec
}

// HistoryForOrder returns the audit trail of one order in append order.
func (s *HistoryService) HistoryForOrder(orderID string) []model.Modification {
	return s.mods.ByOrder(orderID)
}

// HistoryForParticipant returns everything one participant did, across
// orders, in append order.
func (s *HistoryService) HistoryForParticipant(participantID string) []model.Modification {
	return s.mods.ByParticipant(participantID)
}

func eventTypeFor(t model.ModificationType) queue.EventType {
	switch t {
	case model.ModItemAdded:
		return queue.EventItemAdded
	case model.ModItemUpdated:
		return queue.EventItemUpdated
	case model.ModItemRemoved:
		return queue.EventItemRemoved
	case model.ModParticipantJoined:
		return queue.EventParticipantJoined
	default:
		return queue.EventParticipantLeft
	}
}
