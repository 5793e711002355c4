package repository

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/neotai/Order-page/internal/model"
)

// codeAttempts bounds how many random codes Create draws before giving up.
const codeAttempts = 5000

// OrderRepo is the authoritative keyed store of Order aggregates plus a
// secondary index from the human readable six digit join code to the order
// id.  The repo is constructed once at startup and injected into every
// service that needs it; the backing maps are never handed out.
//
// All reads return deep copies.  A returned aggregate is a snapshot: callers
// must not assume it reflects later mutations and must re-fetch after
// reacquiring the per-order lock.  Mutating flows take the order's lock via
// Lock, re-read, modify the copy and write it back with Put, which replaces
// the whole aggregate.
type OrderRepo struct {
	mu     sync.RWMutex
	orders map[string]*model.Order // keyed by order id
	codes  map[string]string       // join code -> order id
	locks  *keyedLock
}

// NewOrderRepo returns an empty order store.
func NewOrderRepo() *OrderRepo {
	return &OrderRepo{
		orders: make(map[string]*model.Order),
		codes:  make(map[string]string),
		locks:  newKeyedLock(),
	}
}

// Lock acquires the mutation lock for the given order id and returns the
// release function.  Every mutating operation against an order id must run
// under this lock so that check-then-act sequences (capacity, nickname
// uniqueness, deadline) are atomic with the write.  Locks for different ids
// are independent; there is no global lock across orders.
func (r *OrderRepo) Lock(orderID string) func() {
	return r.locks.Lock(orderID)
}

// Create stores a new order and assigns it a unique join code.  The code is
// drawn at random and re-drawn on collision while the store's write lock is
// held, so the order only ever becomes visible through GetByCode with a code
// no other order holds.  The input aggregate is cloned; later changes to the
// caller's copy do not reach the store.
func (r *OrderRepo) Create(o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, err := r.freeCode()
	if err != nil {
		return err
	}
	o.Code = code

	cp := o.Clone()
	r.orders[cp.ID] = cp
	r.codes[cp.Code] = cp.ID
	return nil
}

// freeCode draws random six digit codes until one is unused.  Caller must
// hold the write lock.
func (r *OrderRepo) freeCode() (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		if _, taken := r.codes[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

// randomCode returns a uniformly random string of six ASCII digits drawn
// from crypto/rand.
func randomCode() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint64(buf[:]) % 1000000
	return fmt.Sprintf("%06d", n), nil
}

// Get returns a snapshot of the order with the given id.
func (r *OrderRepo) Get(id string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o.Clone(), nil
}

// GetByCode resolves a join code through the secondary index and returns a
// snapshot of the order.
func (r *OrderRepo) GetByCode(code string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.codes[code]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o.Clone(), nil
}

// Put replaces the stored aggregate with a clone of the given one.  The
// order must already exist; codes are immutable, so Put keeps the stored
// code even if the caller's copy was tampered with.
func (r *OrderRepo) Put(o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.orders[o.ID]
	if !ok {
		return ErrOrderNotFound
	}
	cp := o.Clone()
	cp.Code = prev.Code
	r.orders[cp.ID] = cp
	return nil
}

// Delete hard-removes the aggregate and its code index entry.  Modification
// history lives in its own store and is intentionally not touched here.
func (r *OrderRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	delete(r.codes, o.Code)
	delete(r.orders, id)
	return nil
}

// List returns snapshots of all stored orders in unspecified order.  It is
// used by the search service, the statistics read models and the expiration
// sweep.
func (r *OrderRepo) List() []*model.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	return out
}

// Count returns the number of stored orders.
func (r *OrderRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
