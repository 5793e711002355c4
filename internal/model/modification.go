package model

import "time"

// ModificationType enumerates the auditable state changes on an order.
type ModificationType string

const (
	ModItemAdded         ModificationType = "item_added"
	ModItemUpdated       ModificationType = "item_updated"
	ModItemRemoved       ModificationType = "item_removed"
	ModParticipantJoined ModificationType = "participant_joined"
	ModParticipantLeft   ModificationType = "participant_left"
)

// Modification is one immutable audit record.  Records are append only:
// they are never mutated or deleted after creation and are retained even
// when their order is deleted.  The nickname is denormalized so the audit
// trail stays readable after the participant leaves.
//
// Fields:
//  ID            – opaque generated identifier.
//  OrderID       – order the change happened on.
//  ParticipantID – participant who caused the change.
//  Nickname      – participant nickname at the time of the change.
//  Type          – kind of change, see ModificationType.
//  OldValue      – sanitized snapshot before the change, when applicable.
//  NewValue      – sanitized snapshot after the change, when applicable.
//  Description   – human readable one liner for history views.
//  CreatedAt     – when the change was committed.
type Modification struct {
	ID            string           `json:"id"`
	OrderID       string           `json:"order_id"`
	ParticipantID string           `json:"participant_id"`
	Nickname      string           `json:"nickname"`
	Type          ModificationType `json:"type"`
	OldValue      any              `json:"old_value,omitempty"`
	NewValue      any              `json:"new_value,omitempty"`
	Description   string           `json:"description"`
	CreatedAt     time.Time        `json:"created_at"`
}
