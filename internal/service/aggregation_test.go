package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/service"
)

func itemFor(id, name string, price int64, qty int) model.OrderItem {
	it := model.OrderItem{ID: id + "-" + name, MenuItemID: id, MenuItemName: name, BasePriceCents: price, Quantity: qty}
	it.RecomputePrice()
	return it
}

func TestComputeSummary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty order", func(t *testing.T) {
		s := service.ComputeSummary(nil, now)
		assert.Zero(t, s.TotalParticipants)
		assert.Zero(t, s.TotalItems)
		assert.Zero(t, s.TotalAmountCents)
		assert.Empty(t, s.ItemBreakdown)
		assert.Equal(t, now, s.LastUpdated)
	})

	t.Run("aggregates across participants", func(t *testing.T) {
		alice := model.Participant{ID: "p1", Nickname: "Alice", Items: []model.OrderItem{
			itemFor("X", "Burger", 5000, 2),
			itemFor("Y", "Fries", 1500, 1),
		}}
		bob := model.Participant{ID: "p2", Nickname: "Bob", Items: []model.OrderItem{
			itemFor("X", "Burger", 5000, 1),
		}}
		alice.RecomputeTotal()
		bob.RecomputeTotal()

		s := service.ComputeSummary([]model.Participant{alice, bob}, now)
		assert.Equal(t, 2, s.TotalParticipants)
		assert.Equal(t, 4, s.TotalItems)
		assert.Equal(t, int64(3*5000+1500), s.TotalAmountCents)

		burgers := s.ItemBreakdown["X"]
		assert.Equal(t, "Burger", burgers.MenuItemName)
		assert.Equal(t, 3, burgers.Quantity)
		assert.Equal(t, int64(15000), burgers.AmountCents)
		assert.Equal(t, 2, burgers.ParticipantCount)

		fries := s.ItemBreakdown["Y"]
		assert.Equal(t, 1, fries.ParticipantCount)
	})

	t.Run("participant count is distinct people, not line items", func(t *testing.T) {
		// Two separate lines of the same dish from one person must count
		// that person once.
		alice := model.Participant{ID: "p1", Nickname: "Alice", Items: []model.OrderItem{
			itemFor("X", "Burger", 5000, 1),
			itemFor("X2", "Burger", 5000, 1),
		}}
		alice.Items[1].MenuItemID = "X"
		alice.RecomputeTotal()

		s := service.ComputeSummary([]model.Participant{alice}, now)
		assert.Equal(t, 1, s.ItemBreakdown["X"].ParticipantCount)
		assert.Equal(t, 2, s.ItemBreakdown["X"].Quantity)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		ps := []model.Participant{
			{ID: "p1", Nickname: "Alice", Items: []model.OrderItem{itemFor("X", "Burger", 5000, 2)}},
			{ID: "p2", Nickname: "Bob", Items: []model.OrderItem{itemFor("Y", "Fries", 1500, 3)}},
		}
		for i := range ps {
			ps[i].RecomputeTotal()
		}
		first := service.ComputeSummary(ps, now)
		second := service.ComputeSummary(ps, now)
		require.Equal(t, first, second)
	})
}

func TestRecomputePriceOrdering(t *testing.T) {
	it := model.OrderItem{
		BasePriceCents: 5000,
		Quantity:       3,
		Customizations: []model.Customization{
			{Name: "extra cheese", PriceModifierCents: 150},
			{Name: "no bun", PriceModifierCents: -500},
		},
	}
	it.RecomputePrice()
	// Modifiers apply to the unit price before the quantity multiply.
	assert.Equal(t, int64(5000+150-500), it.UnitPriceCents())
	assert.Equal(t, int64((5000+150-500)*3), it.TotalPriceCents)
}
