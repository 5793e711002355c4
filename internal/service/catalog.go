package service

import (
	"context"

	"github.com/neotai/Order-page/internal/model"
)

// Catalog is the menu lookup collaborator the core consumes.  Menu storage
// and ingestion are external concerns; the core only ever reads through this
// interface, and only for fast lookups (menu existence, item price snapshot,
// visibility).  Implementations live in the repository package: a seedable
// in-memory catalog and a read-only MySQL adapter.
//
// Lookups must be fast and local (or at least low latency): item price
// lookups may run while an order's mutation lock is held.
type Catalog interface {
	// GetMenu returns the menu or repository.ErrMenuNotFound.
	GetMenu(ctx context.Context, menuID string) (*model.Menu, error)
	// GetMenuItem returns one item of a menu, or repository.ErrMenuNotFound
	// / repository.ErrMenuItemNotFound.
	GetMenuItem(ctx context.Context, menuID, itemID string) (*model.MenuItem, error)
	// CanView reports whether the given user may open orders against the
	// menu.  Public menus are visible to everyone including guests.
	CanView(ctx context.Context, menuID, userID string) (bool, error)
}
