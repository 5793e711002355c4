package model

import "time"

// Participant is one person's item selection within an order.  A participant
// is backed by exactly one identity: either a registered user (UserID) or a
// guest session (GuestSessionID).  Identity references are internal only and
// never serialized; clients address participants by ID.
//
// Fields:
//  ID               – opaque generated identifier.
//  UserID           – owning registered user, empty for guests.
//  GuestSessionID   – owning guest session, empty for registered users.
//  Nickname         – display name, unique within the order (case sensitive).
//  Items            – ordered list of selected items.
//  TotalAmountCents – sum of item TotalPriceCents; recomputed on every
//                     item mutation, never patched incrementally.
//  JoinedAt         – when the join was admitted.
//  LastModifiedAt   – last item mutation or the join time.
type Participant struct {
	ID               string      `json:"id"`
	UserID           string      `json:"-"`
	GuestSessionID   string      `json:"-"`
	Nickname         string      `json:"nickname"`
	Items            []OrderItem `json:"items"`
	TotalAmountCents int64       `json:"total_amount_cents"`
	JoinedAt         time.Time   `json:"joined_at"`
	LastModifiedAt   time.Time   `json:"last_modified_at"`
}

// Clone returns a deep copy of the participant and its items.
func (p *Participant) Clone() *Participant {
	cp := *p
	cp.Items = make([]OrderItem, len(p.Items))
	for i := range p.Items {
		cp.Items[i] = *p.Items[i].Clone()
	}
	return &cp
}

// Item returns the item with the given id, or nil.
func (p *Participant) Item(id string) *OrderItem {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i]
		}
	}
	return nil
}

// RecomputeTotal recalculates TotalAmountCents from the item list.  Callers
// mutate Items first and then recompute; the total is never adjusted by
// deltas so repeated mutations cannot drift.
func (p *Participant) RecomputeTotal() {
	var total int64
	for i := range p.Items {
		total += p.Items[i].TotalPriceCents
	}
	p.TotalAmountCents = total
}

// Owns reports whether the participant belongs to the given identity
// reference.  Exactly one of userID/guestSessionID is expected to be set.
func (p *Participant) Owns(userID, guestSessionID string) bool {
	if userID != "" && p.UserID == userID {
		return true
	}
	if guestSessionID != "" && p.GuestSessionID == guestSessionID {
		return true
	}
	return false
}

// Customization is a named price adjustment on an order item, for example
// "extra cheese" (+150) or "no cutlery" (-0).  Modifiers may be negative but
// the resulting unit price must stay non-negative.
type Customization struct {
	Name               string `json:"name"`
	PriceModifierCents int64  `json:"price_modifier_cents"`
}

// OrderItem is a single menu selection belonging to one participant.  The
// menu item name and base price are snapshotted at add time so later catalog
// edits do not retroactively change existing orders.
//
// Fields:
//  ID              – opaque generated identifier.
//  MenuItemID      – catalog reference the snapshot was taken from.
//  MenuItemName    – name snapshot.
//  BasePriceCents  – unit price snapshot.
//  Quantity        – positive integer count.
//  Customizations  – per item adjustments, see Customization.
//  TotalPriceCents – (BasePriceCents + sum of modifiers) * Quantity.
//  Note            – optional free text for the kitchen.
//  AddedAt/UpdatedAt – item timestamps.
type OrderItem struct {
	ID              string          `json:"id"`
	MenuItemID      string          `json:"menu_item_id"`
	MenuItemName    string          `json:"menu_item_name"`
	BasePriceCents  int64           `json:"base_price_cents"`
	Quantity        int             `json:"quantity"`
	Customizations  []Customization `json:"customizations,omitempty"`
	TotalPriceCents int64           `json:"total_price_cents"`
	Note            string          `json:"note,omitempty"`
	AddedAt         time.Time       `json:"added_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Clone returns a deep copy of the item.
func (it *OrderItem) Clone() *OrderItem {
	cp := *it
	if it.Customizations != nil {
		cp.Customizations = make([]Customization, len(it.Customizations))
		copy(cp.Customizations, it.Customizations)
	}
	return &cp
}

// UnitPriceCents returns the snapshot base price plus all customization
// modifiers.  The result may not be negative; callers validate before
// storing the item.
func (it *OrderItem) UnitPriceCents() int64 {
	unit := it.BasePriceCents
	for _, c := range it.Customizations {
		unit += c.PriceModifierCents
	}
	return unit
}

// RecomputePrice recalculates TotalPriceCents from the snapshot price,
// customizations and quantity.
func (it *OrderItem) RecomputePrice() {
	it.TotalPriceCents = it.UnitPriceCents() * int64(it.Quantity)
}
