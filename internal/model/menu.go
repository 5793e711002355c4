package model

// Menu is the catalog view the order core consumes.  Menu storage and
// ingestion live outside this service; the core only reads menus through
// the catalog interface, so these types carry just the fields the order
// flow needs.
//
// Fields:
//  ID        – catalog identifier referenced by orders.
//  Name      – display name.
//  CreatorID – user who owns the menu; private menus are visible to the
//              owner only.
//  IsPublic  – whether any user may open orders against the menu.
//  Items     – menu items, see MenuItem.
type Menu struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatorID string     `json:"creator_id,omitempty"`
	IsPublic  bool       `json:"is_public"`
	Items     []MenuItem `json:"items,omitempty"`
}

// MenuItem is a single orderable entry of a menu.  PriceCents is the base
// unit price snapshotted onto order items at add time.
type MenuItem struct {
	ID          string `json:"id"`
	MenuID      string `json:"menu_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	IsAvailable bool   `json:"is_available"`
}
