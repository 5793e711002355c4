package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/queue"
	"github.com/neotai/Order-page/internal/repository"
	"github.com/neotai/Order-page/internal/service"
)

// clock is the injectable time source: tests advance it instead of
// sleeping.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// recorder captures everything the core hands the broadcaster boundary.
type recorder struct {
	mu         sync.Mutex
	broadcasts []queue.OrderEvent
	direct     map[string][]queue.OrderEvent
}

func newRecorder() *recorder {
	return &recorder{direct: make(map[string][]queue.OrderEvent)}
}

func (r *recorder) BroadcastToOrder(_ context.Context, orderID string, ev queue.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.OrderID = orderID
	r.broadcasts = append(r.broadcasts, ev)
	return nil
}

func (r *recorder) SendToUser(_ context.Context, userID string, ev queue.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.direct[userID] = append(r.direct[userID], ev)
	return nil
}

func (r *recorder) events() []queue.OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.OrderEvent(nil), r.broadcasts...)
}

func (r *recorder) lastEvent() *queue.OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.broadcasts) == 0 {
		return nil
	}
	ev := r.broadcasts[len(r.broadcasts)-1]
	return &ev
}

// env wires the whole core against in-memory collaborators and a fake
// clock.
type env struct {
	clock     *clock
	orders    *repository.OrderRepo
	mods      *repository.ModificationRepo
	catalog   *repository.MemoryCatalog
	events    *recorder
	history   *service.HistoryService
	lifecycle *service.OrderService
	registry  *service.ParticipantService
	ledger    *service.ItemService
	stats     *service.StatsService
	sweeper   *service.ExpirationScheduler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		clock:   newClock(),
		orders:  repository.NewOrderRepo(),
		mods:    repository.NewModificationRepo(),
		catalog: repository.NewMemoryCatalog(),
		events:  newRecorder(),
	}
	e.catalog.PutMenu(&model.Menu{
		ID:       "menu-1",
		Name:     "Lunch menu",
		IsPublic: true,
		Items: []model.MenuItem{
			{ID: "X", MenuID: "menu-1", Name: "Burger", PriceCents: 5000, IsAvailable: true},
			{ID: "Y", MenuID: "menu-1", Name: "Fries", PriceCents: 1500, IsAvailable: true},
			{ID: "gone", MenuID: "menu-1", Name: "Soup of yesterday", PriceCents: 900, IsAvailable: false},
		},
	})
	e.catalog.PutMenu(&model.Menu{
		ID:        "menu-private",
		Name:      "Private menu",
		CreatorID: "owner-1",
		IsPublic:  false,
		Items:     []model.MenuItem{{ID: "P", MenuID: "menu-private", Name: "Secret dish", PriceCents: 2000, IsAvailable: true}},
	})

	e.history = service.NewHistoryService(e.orders, e.mods, e.events, e.clock.Now)
	e.lifecycle = service.NewOrderService(e.orders, e.catalog, e.events, e.clock.Now)
	e.registry = service.NewParticipantService(e.orders, service.LocalIdentityResolver{}, e.history, e.clock.Now)
	e.ledger = service.NewItemService(e.orders, e.catalog, e.history, e.clock.Now)
	e.stats = service.NewStatsService(e.orders)
	e.sweeper = service.NewExpirationScheduler(e.orders, e.lifecycle, time.Minute, e.clock.Now)
	return e
}

// createOrder opens an order for user-1 against menu-1 with the given
// optional deadline and capacity.
func (e *env) createOrder(t *testing.T, deadline *time.Time, maxParticipants *int) *model.Order {
	t.Helper()
	settings := model.DefaultSettings()
	settings.MaxParticipants = maxParticipants
	o, err := e.lifecycle.Create(context.Background(), service.CreateOrderInput{
		MenuID:    "menu-1",
		CreatorID: "user-1",
		Title:     "Team lunch",
		Deadline:  deadline,
		Settings:  &settings,
	})
	require.NoError(t, err)
	return o
}

// join admits a participant backed by a guest session named after the
// nickname, unless an explicit ref is given.
func (e *env) join(t *testing.T, code, nickname string, ref *service.IdentityRef) *model.Participant {
	t.Helper()
	r := service.IdentityRef{GuestSessionID: "guest-" + nickname}
	if ref != nil {
		r = *ref
	}
	_, p, err := e.registry.Join(context.Background(), service.JoinInput{Code: code, Nickname: nickname, Identity: r})
	require.NoError(t, err)
	return p
}

func (e *env) deadlineIn(d time.Duration) *time.Time {
	t := e.clock.Now().Add(d)
	return &t
}

// requireConsistent asserts the two core aggregate invariants: every
// participant total is the sum of its item totals, and the summary total is
// the sum of participant totals.
func requireConsistent(t *testing.T, o *model.Order) {
	t.Helper()
	var orderTotal int64
	for i := range o.Participants {
		p := &o.Participants[i]
		var pTotal int64
		for j := range p.Items {
			pTotal += p.Items[j].TotalPriceCents
		}
		require.Equal(t, pTotal, p.TotalAmountCents, "participant %s total out of sync", p.Nickname)
		orderTotal += p.TotalAmountCents
	}
	require.Equal(t, orderTotal, o.Summary.TotalAmountCents, "summary total out of sync")
	require.Equal(t, len(o.Participants), o.Summary.TotalParticipants)
}

func intPtr(v int) *int { return &v }
