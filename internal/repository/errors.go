// Package repository holds the authoritative in-memory stores of the order
// core: the order store with its join-code index and per-order lock table,
// the append-only modification log, and the menu catalog adapters.  The
// sentinel values below let higher layers such as services and handlers
// distinguish failure scenarios without string matching.
package repository

import "errors"

// ErrOrderNotFound is returned when no order exists for the given id or
// join code.  Handlers should translate this into an HTTP 404 response.
var ErrOrderNotFound = errors.New("order not found")

// ErrCodeExhausted is returned by Create when a free join code could not be
// drawn after many attempts.  With a six digit code space this only happens
// when the store is nearly saturated; callers should surface it as a
// temporary failure.
var ErrCodeExhausted = errors.New("order code space exhausted")

// ErrMenuNotFound is returned by catalog adapters when no menu exists for
// the given id.
var ErrMenuNotFound = errors.New("menu not found")

// ErrMenuItemNotFound is returned by catalog adapters when the menu exists
// but carries no item with the given id.
var ErrMenuItemNotFound = errors.New("menu item not found")
