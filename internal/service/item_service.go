package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/repository"
)

// ItemService is the per-participant item ledger: add, update and remove,
// with the price snapshot captured at add time and full recomputation of
// item and participant totals on every mutation.  Each operation exists in
// a plain form and a tracked form; the tracked form consults the
// modification permission window first and appends an audit record after
// the mutation commits.  Both forms reject outright (never silently no-op)
// when the order is inactive or modification is disabled.
type ItemService struct {
	orders  *repository.OrderRepo
	catalog Catalog
	history *HistoryService
	now     func() time.Time
}

// NewItemService wires the ledger.  now may be nil, in which case time.Now
// is used.
func NewItemService(orders *repository.OrderRepo, catalog Catalog, history *HistoryService, now func() time.Time) *ItemService {
	if orders == nil || catalog == nil || history == nil {
		panic("nil dependency passed to NewItemService")
	}
	if now == nil {
		now = time.Now
	}
	return &ItemService{orders: orders, catalog: catalog, history: history, now: now}
}

// AddItemInput carries one add request.  Caller, when set, must own the
// target participant; an empty Caller marks a trusted internal call.
type AddItemInput struct {
	OrderID        string
	ParticipantID  string
	MenuItemID     string
	Quantity       int
	Customizations []model.Customization
	Note           string
	Caller         IdentityRef
}

// AddItem appends a new item to the participant's selection.  The menu item
// must exist and be available; its name and price are snapshotted onto the
// order item so later catalog edits never change this order retroactively.
func (s *ItemService) AddItem(ctx context.Context, in AddItemInput) (*model.OrderItem, error) {
	return s.addItem(ctx, in, false)
}

// AddItemTracked is AddItem behind the permission window, with an audit
// record and broadcast on success.
func (s *ItemService) AddItemTracked(ctx context.Context, in AddItemInput) (*model.OrderItem, error) {
	return s.addItem(ctx, in, true)
}

func (s *ItemService) addItem(ctx context.Context, in AddItemInput, tracked bool) (*model.OrderItem, error) {
	if in.Quantity < 1 {
		return nil, &ValidationError{Reason: "quantity must be a positive integer"}
	}

	// The catalog lookup happens before the lock is taken; the menu
	// reference on an order is immutable, so the pre-lock snapshot is good
	// enough to resolve it.
	pre, err := s.orders.Get(in.OrderID)
	if err != nil {
		return nil, err
	}
	menuItem, err := s.catalog.GetMenuItem(ctx, pre.MenuID, in.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !menuItem.IsAvailable {
		return nil, &ValidationError{Reason: "menu item is not available"}
	}

	unlock := s.orders.Lock(in.OrderID)
	defer unlock()

	o, p, err := s.modifiableParticipant(in.OrderID, in.ParticipantID, in.Caller, tracked)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := model.OrderItem{
		ID:             uuid.New().String(),
		MenuItemID:     menuItem.ID,
		MenuItemName:   menuItem.Name,
		BasePriceCents: menuItem.PriceCents,
		Quantity:       in.Quantity,
		Customizations: append([]model.Customization(nil), in.Customizations...),
		Note:           in.Note,
		AddedAt:        now,
		UpdatedAt:      now,
	}
	if item.UnitPriceCents() < 0 {
		return nil, &ValidationError{Reason: "customizations push unit price below zero"}
	}
	item.RecomputePrice()

	p.Items = append(p.Items, item)
	p.RecomputeTotal()
	p.LastModifiedAt = now
	s.commit(o, now)
	if err := s.orders.Put(o); err != nil {
		return nil, err
	}
	if tracked {
		s.history.Record(ctx, o, p, model.ModItemAdded, nil, item.Clone(),
			fmt.Sprintf("%s added %dx %s", p.Nickname, item.Quantity, item.MenuItemName))
	}
	return item.Clone(), nil
}

// UpdateItemInput carries one update request; nil fields stay unchanged.
type UpdateItemInput struct {
	OrderID        string
	ParticipantID  string
	ItemID         string
	Quantity       *int
	Customizations *[]model.Customization
	Note           *string
	Caller         IdentityRef
}

// UpdateItem changes quantity, customizations or note of an existing item.
// Item and participant totals are recomputed in full, never adjusted by
// deltas, so repeated edits cannot accumulate rounding or ordering drift.
func (s *ItemService) UpdateItem(ctx context.Context, in UpdateItemInput) (*model.OrderItem, error) {
	return s.updateItem(ctx, in, false)
}

// UpdateItemTracked is UpdateItem behind the permission window, with an
// audit record carrying before/after snapshots.
func (s *ItemService) UpdateItemTracked(ctx context.Context, in UpdateItemInput) (*model.OrderItem, error) {
	return s.updateItem(ctx, in, true)
}

func (s *ItemService) updateItem(ctx context.Context, in UpdateItemInput, tracked bool) (*model.OrderItem, error) {
	if in.Quantity != nil && *in.Quantity < 1 {
		return nil, &ValidationError{Reason: "quantity must be a positive integer"}
	}

	unlock := s.orders.Lock(in.OrderID)
	defer unlock()

	o, p, err := s.modifiableParticipant(in.OrderID, in.ParticipantID, in.Caller, tracked)
	if err != nil {
		return nil, err
	}
	item := p.Item(in.ItemID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	before := item.Clone()

	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Customizations != nil {
		item.Customizations = append([]model.Customization(nil), (*in.Customizations)...)
	}
	if in.Note != nil {
		item.Note = *in.Note
	}
	if item.UnitPriceCents() < 0 {
		return nil, &ValidationError{Reason: "customizations push unit price below zero"}
	}
	now := s.now()
	item.UpdatedAt = now
	item.RecomputePrice()
	p.RecomputeTotal()
	p.LastModifiedAt = now
	s.commit(o, now)
	if err := s.orders.Put(o); err != nil {
		return nil, err
	}
	if tracked {
		s.history.Record(ctx, o, p, model.ModItemUpdated, before, item.Clone(),
			fmt.Sprintf("%s updated %s", p.Nickname, item.MenuItemName))
	}
	return item.Clone(), nil
}

// RemoveItem deletes an item from the participant's selection by id.
func (s *ItemService) RemoveItem(ctx context.Context, orderID, participantID, itemID string, caller IdentityRef) error {
	return s.removeItem(ctx, orderID, participantID, itemID, caller, false)
}

// RemoveItemTracked is RemoveItem behind the permission window, with an
// audit record carrying the removed snapshot.
func (s *ItemService) RemoveItemTracked(ctx context.Context, orderID, participantID, itemID string, caller IdentityRef) error {
	return s.removeItem(ctx, orderID, participantID, itemID, caller, true)
}

func (s *ItemService) removeItem(ctx context.Context, orderID, participantID, itemID string, caller IdentityRef, tracked bool) error {
	unlock := s.orders.Lock(orderID)
	defer unlock()

	o, p, err := s.modifiableParticipant(orderID, participantID, caller, tracked)
	if err != nil {
		return err
	}
	idx := -1
	for i := range p.Items {
		if p.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrItemNotFound
	}
	removed := p.Items[idx].Clone()
	p.Items = append(p.Items[:idx], p.Items[idx+1:]...)
	now := s.now()
	p.RecomputeTotal()
	p.LastModifiedAt = now
	s.commit(o, now)
	if err := s.orders.Put(o); err != nil {
		return err
	}
	if tracked {
		s.history.Record(ctx, o, p, model.ModItemRemoved, removed, nil,
			fmt.Sprintf("%s removed %s", p.Nickname, removed.MenuItemName))
	}
	return nil
}

// modifiableParticipant loads the order under the already-held lock and
// checks every shared precondition: order active, modification allowed,
// participant present, caller owns the participant, and (for tracked calls)
// the permission window.  It returns live pointers into the loaded snapshot
// for the caller to mutate before Put.
func (s *ItemService) modifiableParticipant(orderID, participantID string, caller IdentityRef, tracked bool) (*model.Order, *model.Participant, error) {
	o, err := s.orders.Get(orderID)
	if err != nil {
		return nil, nil, err
	}
	if o.Status != model.StatusActive {
		return nil, nil, notActiveError(o)
	}
	if !o.Settings.AllowModification {
		return nil, nil, &StateError{Status: o.Status, Reason: "modification disabled"}
	}
	p := o.Participant(participantID)
	if p == nil {
		return nil, nil, ErrParticipantNotFound
	}
	if !caller.Empty() && !p.Owns(caller.UserID, caller.GuestSessionID) {
		return nil, nil, ErrPermissionDenied
	}
	if tracked {
		if perm := evaluatePermission(o, participantID, s.now()); !perm.Allowed {
			se := &StateError{Status: o.Status, Reason: perm.Reason}
			if o.Deadline != nil {
				if rem := o.Deadline.Sub(s.now()); rem > 0 {
					se.Remaining = rem
				}
			}
			return nil, nil, se
		}
	}
	return o, p, nil
}

// commit refreshes the derived state that must stay in step with any item
// mutation: the cached summary and the order's updated timestamp.
func (s *ItemService) commit(o *model.Order, now time.Time) {
	recomputeSummary(o, now)
	o.UpdatedAt = now
}
