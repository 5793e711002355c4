package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/neotai/Order-page/internal/model"
)

// MemoryCatalog is the in-memory menu catalog used when no catalog database
// is configured.  It can be seeded from a JSON file at startup and extended
// at runtime, which also makes it the catalog of choice for tests.
type MemoryCatalog struct {
	mu    sync.RWMutex
	menus map[string]*model.Menu
}

// NewMemoryCatalog returns an empty in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{menus: make(map[string]*model.Menu)}
}

// LoadFromFile seeds the catalog from a JSON file holding an array of menus.
func (c *MemoryCatalog) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read menu seed: %w", err)
	}
	var menus []model.Menu
	if err := json.Unmarshal(data, &menus); err != nil {
		return fmt.Errorf("parse menu seed: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range menus {
		m := menus[i]
		c.menus[m.ID] = &m
	}
	return nil
}

// PutMenu stores or replaces a menu.
func (c *MemoryCatalog) PutMenu(m *model.Menu) {
	cp := *m
	cp.Items = append([]model.MenuItem(nil), m.Items...)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menus[cp.ID] = &cp
}

// GetMenu returns a copy of the menu with the given id.
func (c *MemoryCatalog) GetMenu(_ context.Context, menuID string) (*model.Menu, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.menus[menuID]
	if !ok {
		return nil, ErrMenuNotFound
	}
	cp := *m
	cp.Items = append([]model.MenuItem(nil), m.Items...)
	return &cp, nil
}

// GetMenuItem returns a copy of one item of a menu.
func (c *MemoryCatalog) GetMenuItem(_ context.Context, menuID, itemID string) (*model.MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.menus[menuID]
	if !ok {
		return nil, ErrMenuNotFound
	}
	for i := range m.Items {
		if m.Items[i].ID == itemID {
			it := m.Items[i]
			return &it, nil
		}
	}
	return nil, ErrMenuItemNotFound
}

// CanView reports whether the user may open orders against the menu.
// Public menus are visible to everyone; private menus only to their creator.
func (c *MemoryCatalog) CanView(_ context.Context, menuID, userID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.menus[menuID]
	if !ok {
		return false, ErrMenuNotFound
	}
	if m.IsPublic {
		return true, nil
	}
	return userID != "" && m.CreatorID == userID, nil
}
