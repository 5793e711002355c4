package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/repository"
)

// ParticipantService implements the join/leave protocol.  Joining enforces,
// in order: order exists, order active and deadline not passed, capacity,
// identity not already present, nickname free within the order.  All checks
// and the write happen inside the order's critical section, so two
// concurrent joins cannot both pass a one-slot capacity check.
type ParticipantService struct {
	orders   *repository.OrderRepo
	identity IdentityResolver
	history  *HistoryService
	now      func() time.Time
}

// NewParticipantService wires the registry.  now may be nil, in which case
// time.Now is used.
func NewParticipantService(orders *repository.OrderRepo, identity IdentityResolver, history *HistoryService, now func() time.Time) *ParticipantService {
	if orders == nil || identity == nil || history == nil {
		panic("nil dependency passed to NewParticipantService")
	}
	if now == nil {
		now = time.Now
	}
	return &ParticipantService{orders: orders, identity: identity, history: history, now: now}
}

// JoinInput carries one join request: the order's six digit code, the
// desired nickname and who is joining.
type JoinInput struct {
	Code     string
	Nickname string
	Identity IdentityRef
}

// Join admits a participant to the order behind the code.  On success the
// new participant starts with an empty item list, the summary is recomputed
// and a participant_joined record is appended and broadcast.
func (s *ParticipantService) Join(ctx context.Context, in JoinInput) (*model.Order, *model.Participant, error) {
	// Input shape is validated before any state is read or touched.
	if err := s.identity.ValidateNickname(in.Nickname); err != nil {
		return nil, nil, err
	}
	ident, err := s.identity.Resolve(ctx, in.Identity)
	if err != nil {
		return nil, nil, err
	}
	if ident == nil {
		return nil, nil, &ValidationError{Reason: "identity reference is required"}
	}

	// Resolve the code outside the lock; the lock is keyed by order id.
	resolved, err := s.orders.GetByCode(in.Code)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.orders.Lock(resolved.ID)
	defer unlock()

	// Re-read under the lock: the snapshot from the code lookup may be
	// stale by now.
	o, err := s.orders.Get(resolved.ID)
	if err != nil {
		return nil, nil, err
	}
	now := s.now()
	if o.Status != model.StatusActive {
		return nil, nil, notActiveError(o)
	}
	// The deadline is evaluated at call time, not only by the background
	// sweep: an order past its deadline refuses joins even before the
	// sweeper gets to it.
	if o.DeadlinePassed(now) {
		return nil, nil, deadlinePassedError(o)
	}
	if o.Settings.MaxParticipants != nil && len(o.Participants) >= *o.Settings.MaxParticipants {
		return nil, nil, ErrCapacityExceeded
	}
	for i := range o.Participants {
		if o.Participants[i].Owns(ident.UserID, ident.GuestSessionID) {
			return nil, nil, &ConflictError{Reason: "already_joined"}
		}
		if o.Participants[i].Nickname == in.Nickname {
			return nil, nil, &ConflictError{Reason: "nickname_taken"}
		}
	}

	p := model.Participant{
		ID:             uuid.New().String(),
		UserID:         ident.UserID,
		GuestSessionID: ident.GuestSessionID,
		Nickname:       in.Nickname,
		Items:          []model.OrderItem{},
		JoinedAt:       now,
		LastModifiedAt: now,
	}
	o.Participants = append(o.Participants, p)
	recomputeSummary(o, now)
	o.UpdatedAt = now
	if err := s.orders.Put(o); err != nil {
		return nil, nil, err
	}
	s.history.Record(ctx, o, &p, model.ModParticipantJoined, nil, nil,
		fmt.Sprintf("%s joined the order", p.Nickname))
	return o, &p, nil
}

// Leave removes a participant from the order.  Leaving is cleanup and is
// allowed in any status, including closed and expired; the live summary is
// recomputed without the departed participant's contribution.
func (s *ParticipantService) Leave(ctx context.Context, orderID, participantID string) (*model.Order, error) {
	unlock := s.orders.Lock(orderID)
	defer unlock()

	o, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range o.Participants {
		if o.Participants[i].ID == participantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrParticipantNotFound
	}
	departed := *o.Participants[idx].Clone()
	o.Participants = append(o.Participants[:idx], o.Participants[idx+1:]...)
	now := s.now()
	recomputeSummary(o, now)
	o.UpdatedAt = now
	if err := s.orders.Put(o); err != nil {
		return nil, err
	}
	s.history.Record(ctx, o, &departed, model.ModParticipantLeft, nil, nil,
		fmt.Sprintf("%s left the order", departed.Nickname))
	return o, nil
}
