package model

import "time"

// ItemBreakdown aggregates one menu item across all participants of an
// order.  ParticipantCount is the number of distinct participants who
// ordered the item, derived from a nickname set during recomputation rather
// than an incremented counter, so it stays correct under repeated mutation.
type ItemBreakdown struct {
	MenuItemName     string `json:"menu_item_name"`
	Quantity         int    `json:"quantity"`
	AmountCents      int64  `json:"amount_cents"`
	ParticipantCount int    `json:"participant_count"`
}

// OrderSummary is the cached order level aggregate.  It is derived data: a
// pure function of the participant list, recomputed in full inside the same
// critical section as every mutation.  It must never be patched in place.
//
// Fields:
//  TotalParticipants – number of participants.
//  TotalItems        – sum of item quantities across all participants.
//  TotalAmountCents  – sum of participant totals.
//  ItemBreakdown     – per menu item aggregation keyed by menu item id.
//  LastUpdated       – when the summary was last recomputed.
type OrderSummary struct {
	TotalParticipants int                      `json:"total_participants"`
	TotalItems        int                      `json:"total_items"`
	TotalAmountCents  int64                    `json:"total_amount_cents"`
	ItemBreakdown     map[string]ItemBreakdown `json:"item_breakdown"`
	LastUpdated       time.Time                `json:"last_updated"`
}

// Clone returns a deep copy of the summary.
func (s *OrderSummary) Clone() *OrderSummary {
	cp := *s
	cp.ItemBreakdown = make(map[string]ItemBreakdown, len(s.ItemBreakdown))
	for k, v := range s.ItemBreakdown {
		cp.ItemBreakdown[k] = v
	}
	return &cp
}
