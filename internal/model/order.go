package model

import "time"

// OrderStatus enumerates the lifecycle states of a group order.  An order
// starts active and moves exactly once to either closed (explicit creator
// action) or expired (deadline sweep).  Both terminal states reject any
// further item or participant mutation.
type OrderStatus string

const (
	StatusActive  OrderStatus = "active"  // accepting joins and item changes
	StatusClosed  OrderStatus = "closed"  // closed by the creator; terminal
	StatusExpired OrderStatus = "expired" // deadline passed; terminal
)

// Terminal reports whether the status is one of the two end states.
func (s OrderStatus) Terminal() bool {
	return s == StatusClosed || s == StatusExpired
}

// OrderSettings controls how a group order behaves while it is active.
//
// Fields:
//  AllowModification   – whether participants may add/update/remove items.
//  MaxParticipants     – optional cap on the number of participants
//                        (nil means unlimited).
//  AutoCloseOnDeadline – whether the expiration sweeper may transition the
//                        order to expired once the deadline passes.
type OrderSettings struct {
	AllowModification   bool `json:"allow_modification"`
	MaxParticipants     *int `json:"max_participants,omitempty"`
	AutoCloseOnDeadline bool `json:"auto_close_on_deadline"`
}

// DefaultSettings returns the settings applied when a create request does
// not specify any.
func DefaultSettings() OrderSettings {
	return OrderSettings{AllowModification: true, AutoCloseOnDeadline: true}
}

// Order is the aggregate root of one round of collective purchasing against
// a single menu.  Participants and their items are owned exclusively by the
// order; the summary is a cache over them and is recomputed in full on every
// mutation.  Orders are identified internally by ID and externally by a
// short six digit Code used for joining.
//
// Fields:
//  ID          – opaque generated identifier.
//  Code        – unique six digit join code; never reassigned.
//  MenuID      – menu the order is placed against.
//  CreatorID   – user who opened the order; only the creator may update,
//                close or delete it.
//  Title       – human title shown to participants.
//  Description – optional free text.
//  Status      – lifecycle state, see OrderStatus.
//  Deadline    – optional absolute instant after which joins and tracked
//                modifications are refused and auto expiry may trigger.
//  Settings    – behavioural switches, see OrderSettings.
//  Participants – ordered list of participants in join order.
//  Summary     – cached aggregate recomputed from Participants.
//  CreatedAt/UpdatedAt/ClosedAt – lifecycle timestamps; ClosedAt is set when
//                the order reaches a terminal state.
type Order struct {
	ID           string        `json:"id"`
	Code         string        `json:"code"`
	MenuID       string        `json:"menu_id"`
	CreatorID    string        `json:"creator_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Status       OrderStatus   `json:"status"`
	Deadline     *time.Time    `json:"deadline,omitempty"`
	Settings     OrderSettings `json:"settings"`
	Participants []Participant `json:"participants"`
	Summary      OrderSummary  `json:"summary"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
}

// Clone returns a deep copy of the order.  The store hands out clones so
// callers can never reach the live aggregate.
func (o *Order) Clone() *Order {
	cp := *o
	if o.Deadline != nil {
		d := *o.Deadline
		cp.Deadline = &d
	}
	if o.ClosedAt != nil {
		t := *o.ClosedAt
		cp.ClosedAt = &t
	}
	if o.Settings.MaxParticipants != nil {
		m := *o.Settings.MaxParticipants
		cp.Settings.MaxParticipants = &m
	}
	cp.Participants = make([]Participant, len(o.Participants))
	for i := range o.Participants {
		cp.Participants[i] = *o.Participants[i].Clone()
	}
	cp.Summary = *o.Summary.Clone()
	return &cp
}

// Participant returns the participant with the given id, or nil.
func (o *Order) Participant(id string) *Participant {
	for i := range o.Participants {
		if o.Participants[i].ID == id {
			return &o.Participants[i]
		}
	}
	return nil
}

// DeadlinePassed reports whether the order has a deadline at or before now.
// Deadlines are absolute instants compared with simple ordering, so the
// check is timezone independent.
func (o *Order) DeadlinePassed(now time.Time) bool {
	return o.Deadline != nil && !o.Deadline.After(now)
}
