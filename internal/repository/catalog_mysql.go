package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/neotai/Order-page/internal/model"
)

// CatalogRepo is the read-only MySQL adapter for the menu catalog.  The
// catalog is owned by an external menu service; this repo only runs lookup
// queries against its tables and never writes.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo wraps an open database handle.
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// GetMenu loads a menu and its items.
func (r *CatalogRepo) GetMenu(ctx context.Context, menuID string) (*model.Menu, error) {
	const q = `SELECT id, name, creator_id, is_public FROM menus WHERE id = ?`
	var m model.Menu
	var creator sql.NullString
	err := r.db.QueryRowContext(ctx, q, menuID).Scan(&m.ID, &m.Name, &creator, &m.IsPublic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}
	m.CreatorID = creator.String

	const itemsQ = `SELECT id, menu_id, name, COALESCE(description, ''), price_cents, is_available
                    FROM menu_items WHERE menu_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, itemsQ, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.MenuItem
		if err := rows.Scan(&it.ID, &it.MenuID, &it.Name, &it.Description, &it.PriceCents, &it.IsAvailable); err != nil {
			return nil, err
		}
		m.Items = append(m.Items, it)
	}
	return &m, rows.Err()
}

// GetMenuItem loads a single menu item.  This runs while an order's mutation
// lock may be held, so it stays a single indexed point query.
func (r *CatalogRepo) GetMenuItem(ctx context.Context, menuID, itemID string) (*model.MenuItem, error) {
	const q = `SELECT id, menu_id, name, COALESCE(description, ''), price_cents, is_available
               FROM menu_items WHERE menu_id = ? AND id = ?`
	var it model.MenuItem
	err := r.db.QueryRowContext(ctx, q, menuID, itemID).Scan(
		&it.ID, &it.MenuID, &it.Name, &it.Description, &it.PriceCents, &it.IsAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish "menu missing" from "item missing" for the caller.
		var exists bool
		if err2 := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM menus WHERE id = ?)`, menuID).Scan(&exists); err2 != nil {
			return nil, err2
		}
		if !exists {
			return nil, ErrMenuNotFound
		}
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// CanView reports whether the user may open orders against the menu.
func (r *CatalogRepo) CanView(ctx context.Context, menuID, userID string) (bool, error) {
	const q = `SELECT creator_id, is_public FROM menus WHERE id = ?`
	var creator sql.NullString
	var public bool
	err := r.db.QueryRowContext(ctx, q, menuID).Scan(&creator, &public)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrMenuNotFound
	}
	if err != nil {
		return false, err
	}
	if public {
		return true, nil
	}
	return userID != "" && creator.String == userID, nil
}
