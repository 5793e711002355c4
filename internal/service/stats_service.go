package service

import (
	"context"
	"sort"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/repository"
)

// StatsService exposes the reporting read models: service-wide statistics,
// popular menu items across finished orders, and per-order participant
// totals.  Everything is derived on demand from order snapshots; nothing
// here mutates state.
type StatsService struct {
	orders *repository.OrderRepo
}

// NewStatsService wires the read models.
func NewStatsService(orders *repository.OrderRepo) *StatsService {
	if orders == nil {
		panic("nil repository passed to NewStatsService")
	}
	return &StatsService{orders: orders}
}

// Statistics is the service-wide counters snapshot.  RevenueCents counts
// closed orders only; expired orders are reported separately because their
// amounts were never confirmed by a creator.
type Statistics struct {
	TotalOrders        int   `json:"total_orders"`
	ActiveOrders       int   `json:"active_orders"`
	ClosedOrders       int   `json:"closed_orders"`
	ExpiredOrders      int   `json:"expired_orders"`
	TotalParticipants  int   `json:"total_participants"`
	RevenueCents       int64 `json:"revenue_cents"`
	ExpiredAmountCents int64 `json:"expired_amount_cents"`
}

// Statistics computes the counters over all stored orders.
func (s *StatsService) Statistics(ctx context.Context) Statistics {
	var st Statistics
	for _, o := range s.orders.List() {
		st.TotalOrders++
		st.TotalParticipants += len(o.Participants)
		switch o.Status {
		case model.StatusActive:
			st.ActiveOrders++
		case model.StatusClosed:
			st.ClosedOrders++
			st.RevenueCents += o.Summary.TotalAmountCents
		case model.StatusExpired:
			st.ExpiredOrders++
			st.ExpiredAmountCents += o.Summary.TotalAmountCents
		}
	}
	return st
}

// PopularItem is one entry of the popular-items report.
type PopularItem struct {
	MenuItemID   string `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"`
	QuantitySold int    `json:"quantity_sold"`
	AmountCents  int64  `json:"amount_cents"`
	OrderCount   int    `json:"order_count"`
}

// PopularItems ranks menu items by quantity across closed and expired
// orders, highest first.  limit <= 0 returns the full ranking.
func (s *StatsService) PopularItems(ctx context.Context, limit int) []PopularItem {
	acc := make(map[string]*PopularItem)
	for _, o := range s.orders.List() {
		if !o.Status.Terminal() {
			continue
		}
		for id, b := range o.Summary.ItemBreakdown {
			e := acc[id]
			if e == nil {
				e = &PopularItem{MenuItemID: id, MenuItemName: b.MenuItemName}
				acc[id] = e
			}
			e.QuantitySold += b.Quantity
			e.AmountCents += b.AmountCents
			e.OrderCount++
		}
	}
	out := make([]PopularItem, 0, len(acc))
	for _, e := range acc {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		return out[i].MenuItemID < out[j].MenuItemID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ParticipantTotal is one row of the per-order totals read model.
type ParticipantTotal struct {
	ParticipantID    string `json:"participant_id"`
	Nickname         string `json:"nickname"`
	ItemCount        int    `json:"item_count"`
	TotalAmountCents int64  `json:"total_amount_cents"`
}

// OrderTotals is the who-owes-what view of one order.
type OrderTotals struct {
	OrderID          string             `json:"order_id"`
	Status           model.OrderStatus  `json:"status"`
	TotalAmountCents int64              `json:"total_amount_cents"`
	Participants     []ParticipantTotal `json:"participants"`
}

// Totals returns the per-participant totals for one order in join order.
func (s *StatsService) Totals(ctx context.Context, orderID string) (*OrderTotals, error) {
	o, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	t := &OrderTotals{
		OrderID:          o.ID,
		Status:           o.Status,
		TotalAmountCents: o.Summary.TotalAmountCents,
		Participants:     make([]ParticipantTotal, 0, len(o.Participants)),
	}
	for i := range o.Participants {
		p := &o.Participants[i]
		count := 0
		for j := range p.Items {
			count += p.Items[j].Quantity
		}
		t.Participants = append(t.Participants, ParticipantTotal{
			ParticipantID:    p.ID,
			Nickname:         p.Nickname,
			ItemCount:        count,
			TotalAmountCents: p.TotalAmountCents,
		})
	}
	return t, nil
}
