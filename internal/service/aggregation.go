package service

import (
	"time"

	"github.com/neotai/Order-page/internal/model"
)

// ComputeSummary derives the order-level aggregate from the participant
// list.  It is a pure function: same participants in, same summary out, no
// side effects.  Every mutating flow calls it inside the order's critical
// section and writes the result back into Order.Summary, so a reader never
// sees a participant or item change without its matching summary.  The
// summary is always rebuilt from scratch; nothing in it is ever patched
// incrementally, which is what keeps the cache from drifting.
func ComputeSummary(participants []model.Participant, now time.Time) model.OrderSummary {
	s := model.OrderSummary{
		TotalParticipants: len(participants),
		ItemBreakdown:     make(map[string]model.ItemBreakdown),
		LastUpdated:       now,
	}
	// Distinct participants per menu item, keyed by menu item id then
	// nickname.  The count is the size of the set, not an incremented
	// counter, so repeated add/remove cycles cannot skew it.
	whoOrdered := make(map[string]map[string]bool)

	for pi := range participants {
		p := &participants[pi]
		s.TotalAmountCents += p.TotalAmountCents
		for ii := range p.Items {
			it := &p.Items[ii]
			s.TotalItems += it.Quantity

			b := s.ItemBreakdown[it.MenuItemID]
			b.MenuItemName = it.MenuItemName
			b.Quantity += it.Quantity
			b.AmountCents += it.TotalPriceCents

			set := whoOrdered[it.MenuItemID]
			if set == nil {
				set = make(map[string]bool)
				whoOrdered[it.MenuItemID] = set
			}
			set[p.Nickname] = true
			b.ParticipantCount = len(set)

			s.ItemBreakdown[it.MenuItemID] = b
		}
	}
	return s
}

// recomputeSummary refreshes the order's cached summary in place.
func recomputeSummary(o *model.Order, now time.Time) {
	o.Summary = ComputeSummary(o.Participants, now)
}
