package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// MenuRepo provides CRUD access to the menu_items table.  Order
// creation reads it to snapshot names and prices onto order items.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo returns a MenuRepo bound to the given database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

// Create inserts a new menu item.
func (r *MenuRepo) Create(ctx context.Context, m *model.MenuItem) error {
	const q = `INSERT INTO menu_items (name, price_cents, image_url) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, m.Name, m.PriceCents, m.ImageURL)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM menu_items WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID returns the menu item with the given ID or ErrNotFound.
func (r *MenuRepo) GetByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	const q = `SELECT id, name, price_cents, image_url, created_at, updated_at FROM menu_items WHERE id = ?`
	var m model.MenuItem
	var imageURL sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name, &m.PriceCents, &imageURL, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.ImageURL = imageURL.String
	return &m, nil
}

// List returns all menu items ordered by name.
func (r *MenuRepo) List(ctx context.Context) ([]model.MenuItem, error) {
	const q = `SELECT id, name, price_cents, image_url, created_at, updated_at FROM menu_items ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MenuItem, 0)
	for rows.Next() {
		var m model.MenuItem
		var imageURL sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.PriceCents, &imageURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.ImageURL = imageURL.String
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update rewrites a menu item.  ErrNotFound when the ID does not exist.
func (r *MenuRepo) Update(ctx context.Context, m *model.MenuItem) error {
	const q = `UPDATE menu_items SET name = ?, price_cents = ?, image_url = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, m.Name, m.PriceCents, m.ImageURL, m.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a menu item by ID.
func (r *MenuRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
