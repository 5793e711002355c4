package repository

import (
	"sync"

	"github.com/neotai/Order-page/internal/model"
)

// ModificationRepo is the append-only audit log of order changes.  Records
// are grouped per order for history queries and indexed per participant for
// cross-order views.  Nothing is ever mutated or deleted after Append, and
// records deliberately survive the deletion of their order.
type ModificationRepo struct {
	mu            sync.RWMutex
	byOrder       map[string][]*model.Modification
	byParticipant map[string][]*model.Modification
}

// NewModificationRepo returns an empty modification log.
func NewModificationRepo() *ModificationRepo {
	return &ModificationRepo{
		byOrder:       make(map[string][]*model.Modification),
		byParticipant: make(map[string][]*model.Modification),
	}
}

// Append stores one record.  The record is cloned-by-value on the way in;
// callers must not retain pointers into the snapshots they passed.
func (r *ModificationRepo) Append(m *model.Modification) {
	cp := *m
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrder[cp.OrderID] = append(r.byOrder[cp.OrderID], &cp)
	if cp.ParticipantID != "" {
		r.byParticipant[cp.ParticipantID] = append(r.byParticipant[cp.ParticipantID], &cp)
	}
}

// ByOrder returns the records for one order in append order.
func (r *ModificationRepo) ByOrder(orderID string) []model.Modification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyRecords(r.byOrder[orderID])
}

// ByParticipant returns the records caused by one participant across all
// orders, in append order.
func (r *ModificationRepo) ByParticipant(participantID string) []model.Modification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyRecords(r.byParticipant[participantID])
}

// CountByOrder returns the number of records for one order.
func (r *ModificationRepo) CountByOrder(orderID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byOrder[orderID])
}

func copyRecords(src []*model.Modification) []model.Modification {
	out := make([]model.Modification, len(src))
	for i, m := range src {
		out[i] = *m
	}
	return out
}
