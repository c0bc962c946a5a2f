package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableRepo provides CRUD access to the restaurant_tables table.
// Table numbers are unique; reservations reference tables by number
// only, so deleting a table never cascades into reservation history.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableCols = `id, number, capacity, image_url, image_public_id, created_at, updated_at`

// Create inserts a new table.  A duplicate number surfaces as
// ErrDuplicateEntry.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO restaurant_tables (number, capacity, image_url, image_public_id)
               VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, t.Number, t.Capacity, t.ImageURL, t.ImagePublicID)
	if err != nil {
		return translateDuplicate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM restaurant_tables WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByNumber returns the table with the given number or ErrNotFound.
func (r *TableRepo) GetByNumber(ctx context.Context, number string) (*model.Table, error) {
	const q = `SELECT ` + tableCols + ` FROM restaurant_tables WHERE number = ?`
	var t model.Table
	var imageURL, publicID sql.NullString
	err := r.db.QueryRowContext(ctx, q, number).Scan(
		&t.ID, &t.Number, &t.Capacity, &imageURL, &publicID, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.ImageURL = imageURL.String
	t.ImagePublicID = publicID.String
	return &t, nil
}

// List returns all tables ordered by number.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT ` + tableCols + ` FROM restaurant_tables ORDER BY number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		var imageURL, publicID sql.NullString
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity, &imageURL, &publicID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.ImageURL = imageURL.String
		t.ImagePublicID = publicID.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites a table's mutable fields.  ErrNotFound is returned
// when the ID does not exist.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE restaurant_tables
               SET number = ?, capacity = ?, image_url = ?, image_public_id = ?, updated_at = UTC_TIMESTAMP()
               WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, t.Number, t.Capacity, t.ImageURL, t.ImagePublicID, t.ID)
	if err != nil {
		return translateDuplicate(err)
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

// Delete removes a table by ID.  ErrNotFound when no row matched.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM restaurant_tables WHERE id = ?`, id)
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
