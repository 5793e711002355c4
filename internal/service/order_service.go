package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/queue"
	"github.com/neotai/Order-page/internal/repository"
)

// OrderService drives the order lifecycle: creation, metadata updates,
// closing, expiry and deletion.  Status only ever moves forward
// (active to closed, or active to expired); every other transition is
// rejected with a StateError.  All mutations run under the order's lock so
// lifecycle changes serialize with joins and item edits on the same order.
type OrderService struct {
	orders      *repository.OrderRepo
	catalog     Catalog
	broadcaster Broadcaster
	now         func() time.Time
}

// NewOrderService wires the lifecycle controller.  now may be nil, in which
// case time.Now is used.
func NewOrderService(orders *repository.OrderRepo, catalog Catalog, b Broadcaster, now func() time.Time) *OrderService {
	if orders == nil || catalog == nil || b == nil {
		panic("nil dependency passed to NewOrderService")
	}
	if now == nil {
		now = time.Now
	}
	return &OrderService{orders: orders, catalog: catalog, broadcaster: b, now: now}
}

// CreateOrderInput carries everything needed to open an order.
type CreateOrderInput struct {
	MenuID      string
	CreatorID   string
	Title       string
	Description string
	Deadline    *time.Time
	Settings    *model.OrderSettings // nil means model.DefaultSettings
}

// Create opens a new active order against a menu the creator can view.  The
// store assigns the unique six digit join code.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if in.CreatorID == "" {
		return nil, &ValidationError{Reason: "creator is required"}
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &ValidationError{Reason: "title is required"}
	}
	now := s.now()
	if in.Deadline != nil && !in.Deadline.After(now) {
		return nil, &ValidationError{Reason: "deadline must be in the future"}
	}
	settings := model.DefaultSettings()
	if in.Settings != nil {
		settings = *in.Settings
		if settings.MaxParticipants != nil && *settings.MaxParticipants < 1 {
			return nil, &ValidationError{Reason: "max_participants must be at least 1"}
		}
	}

	// Menu existence and visibility are checked before the order becomes
	// visible anywhere.
	if _, err := s.catalog.GetMenu(ctx, in.MenuID); err != nil {
		return nil, err
	}
	ok, err := s.catalog.CanView(ctx, in.MenuID, in.CreatorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPermissionDenied
	}

	o := &model.Order{
		ID:           uuid.New().String(),
		MenuID:       in.MenuID,
		CreatorID:    in.CreatorID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Status:       model.StatusActive,
		Deadline:     in.Deadline,
		Settings:     settings,
		Participants: []model.Participant{},
		Summary:      ComputeSummary(nil, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.orders.Create(o); err != nil {
		return nil, err
	}
	created, err := s.orders.Get(o.ID)
	if err != nil {
		return nil, err
	}
	s.broadcastLifecycle(ctx, created, queue.EventOrderCreated, "order created")
	return created, nil
}

// Get returns a snapshot of the order.
func (s *OrderService) Get(ctx context.Context, orderID string) (*model.Order, error) {
	return s.orders.Get(orderID)
}

// GetByCode resolves the six digit join code.
func (s *OrderService) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	return s.orders.GetByCode(code)
}

// UpdateOrderInput carries the mutable order metadata.  Nil fields are left
// unchanged; Settings replaces the whole settings block when present.
type UpdateOrderInput struct {
	Title       *string
	Description *string
	Settings    *model.OrderSettings
}

// Update changes title, description or settings.  Only the creator may call
// it and only while the order is active; id, code, creator and creation
// timestamp are immutable.
func (s *OrderService) Update(ctx context.Context, orderID, callerID string, in UpdateOrderInput) (*model.Order, error) {
	unlock := s.orders.Lock(orderID)
	defer unlock()

	o, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.CreatorID != callerID {
		return nil, ErrPermissionDenied
	}
	if o.Status != model.StatusActive {
		return nil, notActiveError(o)
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, &ValidationError{Reason: "title must not be empty"}
		}
		o.Title = t
	}
	if in.Description != nil {
		o.Description = strings.TrimSpace(*in.Description)
	}
	if in.Settings != nil {
		ns := *in.Settings
		// The capacity invariant must keep holding across the update.
		if ns.MaxParticipants != nil && *ns.MaxParticipants < len(o.Participants) {
			return nil, &ValidationError{Reason: "max_participants below current participant count"}
		}
		o.Settings = ns
	}
	o.UpdatedAt = s.now()
	if err := s.orders.Put(o); err != nil {
		return nil, err
	}
	s.broadcastLifecycle(ctx, o, queue.EventOrderUpdated, "order updated")
	return o, nil
}

// Close moves an active order to closed.  Creator only; terminal.
func (s *OrderService) Close(ctx context.Context, orderID, callerID string) (*model.Order, error) {
	unlock := s.orders.Lock(orderID)
	defer unlock()

	o, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.CreatorID != callerID {
		return nil, ErrPermissionDenied
	}
	if o.Status != model.StatusActive {
		return nil, notActiveError(o)
	}
	now := s.now()
	o.Status = model.StatusClosed
	o.ClosedAt = &now
	o.UpdatedAt = now
	if err := s.orders.Put(o); err != nil {
		return nil, err
	}
	s.broadcastLifecycle(ctx, o, queue.EventOrderClosed, "order closed by creator")
	s.notifyCreator(ctx, o, queue.EventOrderClosed, "your order was closed")
	return o, nil
}

// Expire moves an active order to expired.  It is called by the expiration
// sweeper and by operational tooling; there is no creator check, but the
// transition is still rejected when the order is not active, so an expiry
// racing a close resolves to whichever acquired the lock first.
func (s *OrderService) Expire(ctx context.Context, orderID string) (*model.Order, error) {
	unlock := s.orders.Lock(orderID)
	defer unlock()

	o, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != model.StatusActive {
		return nil, notActiveError(o)
	}
	now := s.now()
	o.Status = model.StatusExpired
	o.ClosedAt = &now
	o.UpdatedAt = now
	if err := s.orders.Put(o); err != nil {
		return nil, err
	}
	s.broadcastLifecycle(ctx, o, queue.EventOrderExpired, "order expired")
	s.notifyCreator(ctx, o, queue.EventOrderExpired, "your order expired")
	return o, nil
}

// Delete hard-removes the order and its code index entry, in any status.
// Creator only.  Modification history is retained for audit.
func (s *OrderService) Delete(ctx context.Context, orderID, callerID string) error {
	unlock := s.orders.Lock(orderID)
	defer unlock()

	o, err := s.orders.Get(orderID)
	if err != nil {
		return err
	}
	if o.CreatorID != callerID {
		return ErrPermissionDenied
	}
	return s.orders.Delete(orderID)
}

// OrderFilter selects orders for Search.  Zero values mean "any".
type OrderFilter struct {
	CreatorID     string
	Status        model.OrderStatus
	MenuID        string
	ParticipantID string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          int // 1-based; defaults to 1
	Limit         int // defaults to 20, capped at 100
}

// Search lists orders matching the filter, newest first, paginated.  The
// second return value is the total match count before pagination.
func (s *OrderService) Search(ctx context.Context, f OrderFilter) ([]*model.Order, int, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var matched []*model.Order
	for _, o := range s.orders.List() {
		if !matchOrder(o, f) {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []*model.Order{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matchOrder(o *model.Order, f OrderFilter) bool {
	if f.CreatorID != "" && o.CreatorID != f.CreatorID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.MenuID != "" && o.MenuID != f.MenuID {
		return false
	}
	if f.ParticipantID != "" && o.Participant(f.ParticipantID) == nil {
		return false
	}
	if f.CreatedAfter != nil && o.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	if f.CreatedBefore != nil && o.CreatedAt.After(*f.CreatedBefore) {
		return false
	}
	return true
}

func (s *OrderService) broadcastLifecycle(ctx context.Context, o *model.Order, t queue.EventType, desc string) {
	_ = s.broadcaster.BroadcastToOrder(ctx, o.ID, queue.OrderEvent{
		Type:        t,
		OrderID:     o.ID,
		Order:       queue.SanitizeOrder(o),
		Description: desc,
		OccurredAt:  s.now().UTC().Format(time.RFC3339),
	})
}

func (s *OrderService) notifyCreator(ctx context.Context, o *model.Order, t queue.EventType, desc string) {
	_ = s.broadcaster.SendToUser(ctx, o.CreatorID, queue.OrderEvent{
		Type:        t,
		OrderID:     o.ID,
		Order:       queue.SanitizeOrder(o),
		Description: desc,
		OccurredAt:  s.now().UTC().Format(time.RFC3339),
	})
}
