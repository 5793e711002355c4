package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/repository"
	"github.com/neotai/Order-page/internal/service"
)

func TestAddItem(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.createOrder(t, nil, nil)
	alice := e.join(t, o.Code, "Alice", nil)

	t.Run("snapshots price and computes totals", func(t *testing.T) {
		item, err := e.ledger.AddItem(ctx, service.AddItemInput{
			OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 2,
			Customizations: []model.Customization{{Name: "extra cheese", PriceModifierCents: 150}},
			Note:           "no onions",
		})
		require.NoError(t, err)
		assert.Equal(t, "Burger", item.MenuItemName)
		assert.Equal(t, int64(5000), item.BasePriceCents)
		assert.Equal(t, int64((5000+150)*2), item.TotalPriceCents)

		got, err := e.lifecycle.Get(ctx, o.ID)
		require.NoError(t, err)
		requireConsistent(t, got)
		assert.Equal(t, int64(10300), got.Summary.TotalAmountCents)
		assert.Equal(t, 2, got.Summary.TotalItems)
	})

	t.Run("later catalog edits do not change the snapshot", func(t *testing.T) {
		e.catalog.PutMenu(&model.Menu{
			ID: "menu-1", Name: "Lunch menu", IsPublic: true,
			Items: []model.MenuItem{
				{ID: "X", MenuID: "menu-1", Name: "Burger Deluxe", PriceCents: 9900, IsAvailable: true},
				{ID: "Y", MenuID: "menu-1", Name: "Fries", PriceCents: 1500, IsAvailable: true},
				{ID: "gone", MenuID: "menu-1", Name: "Soup of yesterday", PriceCents: 900, IsAvailable: false},
			},
		})
		got, err := e.lifecycle.Get(ctx, o.ID)
		require.NoError(t, err)
		item := got.Participants[0].Items[0]
		assert.Equal(t, "Burger", item.MenuItemName)
		assert.Equal(t, int64(5000), item.BasePriceCents)
	})

	t.Run("validation", func(t *testing.T) {
		var invalid *service.ValidationError
		_, err := e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 0})
		assert.ErrorAs(t, err, &invalid, "zero quantity")

		_, err = e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "gone", Quantity: 1})
		assert.ErrorAs(t, err, &invalid, "unavailable menu item")

		_, err = e.ledger.AddItem(ctx, service.AddItemInput{
			OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 1,
			Customizations: []model.Customization{{Name: "impossible discount", PriceModifierCents: -99999}},
		})
		assert.ErrorAs(t, err, &invalid, "negative unit price")

		_, err = e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "nope", Quantity: 1})
		assert.ErrorIs(t, err, repository.ErrMenuItemNotFound)

		_, err = e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: "nope", MenuItemID: "X", Quantity: 1})
		assert.ErrorIs(t, err, service.ErrParticipantNotFound)
	})

	t.Run("caller must own the participant", func(t *testing.T) {
		_, err := e.ledger.AddItem(ctx, service.AddItemInput{
			OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 1,
			Caller: service.IdentityRef{GuestSessionID: "guest-Bob"},
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}

func TestUpdateItem(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.createOrder(t, nil, nil)
	alice := e.join(t, o.Code, "Alice", nil)
	item, err := e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 2})
	require.NoError(t, err)

	t.Run("recomputes totals in full", func(t *testing.T) {
		q := 5
		updated, err := e.ledger.UpdateItem(ctx, service.UpdateItemInput{
			OrderID: o.ID, ParticipantID: alice.ID, ItemID: item.ID, Quantity: &q,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(25000), updated.TotalPriceCents)

		custom := []model.Customization{{Name: "no bun", PriceModifierCents: -500}}
		updated, err = e.ledger.UpdateItem(ctx, service.UpdateItemInput{
			OrderID: o.ID, ParticipantID: alice.ID, ItemID: item.ID, Customizations: &custom,
		})
		require.NoError(t, err)
		assert.Equal(t, int64((5000-500)*5), updated.TotalPriceCents)

		got, err := e.lifecycle.Get(ctx, o.ID)
		require.NoError(t, err)
		requireConsistent(t, got)
	})

	t.Run("unknown item", func(t *testing.T) {
		q := 1
		_, err := e.ledger.UpdateItem(ctx, service.UpdateItemInput{OrderID: o.ID, ParticipantID: alice.ID, ItemID: "nope", Quantity: &q})
		assert.ErrorIs(t, err, service.ErrItemNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.createOrder(t, nil, nil)
	alice := e.join(t, o.Code, "Alice", nil)
	item, err := e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 2})
	require.NoError(t, err)

	t.Run("unknown id leaves state untouched", func(t *testing.T) {
		before, _ := e.lifecycle.Get(ctx, o.ID)
		err := e.ledger.RemoveItem(ctx, o.ID, alice.ID, "nope", service.IdentityRef{})
		assert.ErrorIs(t, err, service.ErrItemNotFound)
		after, _ := e.lifecycle.Get(ctx, o.ID)
		assert.Equal(t, before.Summary.TotalAmountCents, after.Summary.TotalAmountCents)
		assert.Len(t, after.Participants[0].Items, 1)
	})

	t.Run("removes and recomputes", func(t *testing.T) {
		require.NoError(t, e.ledger.RemoveItem(ctx, o.ID, alice.ID, item.ID, service.IdentityRef{}))
		got, err := e.lifecycle.Get(ctx, o.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Participants[0].Items)
		assert.Zero(t, got.Summary.TotalAmountCents)
		requireConsistent(t, got)
	})
}

func TestItemMutationsRejectedOnLockedOrders(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	t.Run("inactive order", func(t *testing.T) {
		o := e.createOrder(t, nil, nil)
		alice := e.join(t, o.Code, "Alice", nil)
		_, err := e.lifecycle.Close(ctx, o.ID, "user-1")
		require.NoError(t, err)

		var state *service.StateError
		_, err = e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 1})
		require.ErrorAs(t, err, &state)
		assert.Equal(t, model.StatusClosed, state.Status)
	})

	t.Run("modification disabled", func(t *testing.T) {
		settings := model.DefaultSettings()
		settings.AllowModification = false
		o, err := e.lifecycle.Create(ctx, service.CreateOrderInput{
			MenuID: "menu-1", CreatorID: "user-1", Title: "Fixed menu", Settings: &settings,
		})
		require.NoError(t, err)
		alice := e.join(t, o.Code, "Alice", nil)

		var state *service.StateError
		_, err = e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 1})
		require.ErrorAs(t, err, &state)
		assert.Equal(t, "modification disabled", state.Reason)
	})
}

func TestTrackedItemOperations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.createOrder(t, e.deadlineIn(time.Hour), nil)
	alice := e.join(t, o.Code, "Alice", nil)

	t.Run("full add-update-remove audit trail", func(t *testing.T) {
		item, err := e.ledger.AddItemTracked(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 1})
		require.NoError(t, err)
		q := 3
		_, err = e.ledger.UpdateItemTracked(ctx, service.UpdateItemInput{OrderID: o.ID, ParticipantID: alice.ID, ItemID: item.ID, Quantity: &q})
		require.NoError(t, err)
		require.NoError(t, e.ledger.RemoveItemTracked(ctx, o.ID, alice.ID, item.ID, service.IdentityRef{}))

		recs := e.history.HistoryForOrder(o.ID)
		require.Len(t, recs, 4) // join + add + update + remove
		assert.Equal(t, model.ModItemAdded, recs[1].Type)
		assert.Equal(t, model.ModItemUpdated, recs[2].Type)
		assert.Equal(t, model.ModItemRemoved, recs[3].Type)
		assert.NotNil(t, recs[2].OldValue)
		assert.NotNil(t, recs[2].NewValue)
		assert.Len(t, e.events.events(), 5, "order_created + one broadcast per record")
	})

	t.Run("plain operations skip the audit trail", func(t *testing.T) {
		before := len(e.history.HistoryForOrder(o.ID))
		_, err := e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "Y", Quantity: 1})
		require.NoError(t, err)
		assert.Len(t, e.history.HistoryForOrder(o.ID), before)
	})

	t.Run("tracked mutation refused after deadline, no partial write", func(t *testing.T) {
		e.clock.Advance(2 * time.Hour)
		before, _ := e.lifecycle.Get(ctx, o.ID)

		var state *service.StateError
		_, err := e.ledger.AddItemTracked(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 1})
		require.ErrorAs(t, err, &state)
		assert.Equal(t, "deadline passed", state.Reason)

		after, _ := e.lifecycle.Get(ctx, o.ID)
		assert.Equal(t, before.Summary.TotalAmountCents, after.Summary.TotalAmountCents)
		assert.Len(t, after.Participants[0].Items, len(before.Participants[0].Items))
	})
}
