package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/queue"
	"github.com/neotai/Order-page/internal/repository"
	"github.com/neotai/Order-page/internal/service"
)

func TestJoin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.createOrder(t, nil, nil)

	t.Run("success records history and broadcasts", func(t *testing.T) {
		got, p, err := e.registry.Join(ctx, service.JoinInput{
			Code: o.Code, Nickname: "Alice", Identity: service.IdentityRef{UserID: "user-7"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice", p.Nickname)
		assert.Empty(t, p.Items)
		assert.Zero(t, p.TotalAmountCents)
		requireConsistent(t, got)

		recs := e.history.HistoryForOrder(o.ID)
		require.Len(t, recs, 1)
		assert.Equal(t, model.ModParticipantJoined, recs[0].Type)
		assert.Equal(t, "Alice", recs[0].Nickname)

		ev := e.events.lastEvent()
		require.NotNil(t, ev)
		assert.Equal(t, queue.EventParticipantJoined, ev.Type)
		require.NotNil(t, ev.Participant)
		assert.Equal(t, "Alice", ev.Participant.Nickname)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, _, err := e.registry.Join(ctx, service.JoinInput{Code: "999999", Nickname: "Bob", Identity: service.IdentityRef{UserID: "u"}})
		assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	})

	t.Run("same identity cannot join twice", func(t *testing.T) {
		var conflict *service.ConflictError
		_, _, err := e.registry.Join(ctx, service.JoinInput{Code: o.Code, Nickname: "Alice2", Identity: service.IdentityRef{UserID: "user-7"}})
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "already_joined", conflict.Reason)
	})

	t.Run("nickname taken by a different identity", func(t *testing.T) {
		var conflict *service.ConflictError
		_, _, err := e.registry.Join(ctx, service.JoinInput{Code: o.Code, Nickname: "Alice", Identity: service.IdentityRef{UserID: "user-8"}})
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "nickname_taken", conflict.Reason)
	})

	t.Run("same nickname in a different order is fine", func(t *testing.T) {
		o2 := e.createOrder(t, nil, nil)
		_, _, err := e.registry.Join(ctx, service.JoinInput{Code: o2.Code, Nickname: "Alice", Identity: service.IdentityRef{UserID: "user-8"}})
		assert.NoError(t, err)
	})

	t.Run("bad nicknames rejected before any state changes", func(t *testing.T) {
		var invalid *service.ValidationError
		for _, nick := range []string{"A", "  padded  ", "admin", "way-too-long-nickname-x", "new\nline"} {
			_, _, err := e.registry.Join(ctx, service.JoinInput{Code: o.Code, Nickname: nick, Identity: service.IdentityRef{UserID: "user-9"}})
			assert.ErrorAs(t, err, &invalid, "nickname %q", nick)
		}
		_, _, err := e.registry.Join(ctx, service.JoinInput{Code: o.Code, Nickname: "Valid", Identity: service.IdentityRef{}})
		assert.ErrorAs(t, err, &invalid, "empty identity reference")
	})
}

func TestJoinStateChecks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	t.Run("closed order refuses joins", func(t *testing.T) {
		o := e.createOrder(t, nil, nil)
		_, err := e.lifecycle.Close(ctx, o.ID, "user-1")
		require.NoError(t, err)
		var state *service.StateError
		_, _, err = e.registry.Join(ctx, service.JoinInput{Code: o.Code, Nickname: "Alice", Identity: service.IdentityRef{UserID: "u"}})
		require.ErrorAs(t, err, &state)
		assert.Equal(t, model.StatusClosed, state.Status)
	})

	t.Run("deadline is checked at call time, before any sweep", func(t *testing.T) {
		o := e.createOrder(t, e.deadlineIn(5*time.Minute), nil)
		e.clock.Advance(6 * time.Minute)
		var state *service.StateError
		_, _, err := e.registry.Join(ctx, service.JoinInput{Code: o.Code, Nickname: "Late", Identity: service.IdentityRef{UserID: "u"}})
		require.ErrorAs(t, err, &state)
		assert.Equal(t, "deadline passed", state.Reason)

		got, err := e.lifecycle.Get(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, got.Status, "join must not expire the order itself")
	})

	t.Run("capacity cap", func(t *testing.T) {
		o := e.createOrder(t, nil, intPtr(2))
		e.join(t, o.Code, "Alice", nil)
		e.join(t, o.Code, "Bob", nil)
		_, _, err := e.registry.Join(ctx, service.JoinInput{Code: o.Code, Nickname: "Carol", Identity: service.IdentityRef{UserID: "u"}})
		assert.ErrorIs(t, err, service.ErrCapacityExceeded)
	})
}

func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	e := newEnv(t)
	o := e.createOrder(t, nil, intPtr(3))

	const contenders = 30
	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := e.registry.Join(context.Background(), service.JoinInput{
				Code:     o.Code,
				Nickname: fmt.Sprintf("Guest %02d", i),
				Identity: service.IdentityRef{GuestSessionID: fmt.Sprintf("sess-%02d", i)},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	for err := range results {
		if err == nil {
			admitted++
		} else {
			assert.ErrorIs(t, err, service.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 3, admitted, "exactly the capacity may be admitted under race")

	got, err := e.lifecycle.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, 3)
	requireConsistent(t, got)
}

func TestLeave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.createOrder(t, nil, nil)
	alice := e.join(t, o.Code, "Alice", nil)
	e.join(t, o.Code, "Bob", nil)

	t.Run("removes participant and recomputes summary", func(t *testing.T) {
		_, err := e.ledger.AddItem(ctx, service.AddItemInput{OrderID: o.ID, ParticipantID: alice.ID, MenuItemID: "X", Quantity: 1})
		require.NoError(t, err)

		got, err := e.registry.Leave(ctx, o.ID, alice.ID)
		require.NoError(t, err)
		assert.Len(t, got.Participants, 1)
		assert.Zero(t, got.Summary.TotalAmountCents, "departed contribution must drop from the live summary")
		requireConsistent(t, got)

		recs := e.history.HistoryForOrder(o.ID)
		assert.Equal(t, model.ModParticipantLeft, recs[len(recs)-1].Type)
	})

	t.Run("unknown participant", func(t *testing.T) {
		_, err := e.registry.Leave(ctx, o.ID, "nope")
		assert.ErrorIs(t, err, service.ErrParticipantNotFound)
	})

	t.Run("leave stays possible after close", func(t *testing.T) {
		_, err := e.lifecycle.Close(ctx, o.ID, "user-1")
		require.NoError(t, err)
		got, err := e.lifecycle.Get(ctx, o.ID)
		require.NoError(t, err)
		bob := got.Participants[0]

		after, err := e.registry.Leave(ctx, o.ID, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, after.Participants)
	})
}
