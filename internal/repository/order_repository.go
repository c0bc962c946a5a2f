package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// OrderRepo provides persistence for orders and their items.  An
// order and its items are written in one transaction so a failed
// insert never leaves a headless order behind.  Unique indexes on
// order_number and external_id back the number-uniqueness and
// idempotency guarantees.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, external_id, order_number, customer_name, table_number,
    order_type, note, total_cents, status, created_at, updated_at`

// Create inserts an order together with its items.  The generated
// IDs and timestamps are populated on the provided record.  Unique
// violations are translated like reservation inserts.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO orders
        (external_id, order_number, customer_name, table_number, order_type, note, total_cents, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		o.ExternalID, o.OrderNumber, o.CustomerName, o.TableNumber,
		o.OrderType, o.Note, o.TotalCents, string(o.Status),
	)
	if err != nil {
		return translateDuplicate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)

	if len(o.Items) > 0 {
		query := `INSERT INTO order_items (order_id, menu_item_id, name, quantity, price_cents, image_url) VALUES `
		args := make([]interface{}, 0, len(o.Items)*6)
		for i := range o.Items {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?)"
			it := &o.Items[i]
			it.OrderID = o.ID
			args = append(args, o.ID, it.MenuItemID, it.Name, it.Quantity, it.PriceCents, it.ImageURL)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	const sel = `SELECT created_at, updated_at FROM orders WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, o.ID).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByExternalID returns an order with its items or ErrNotFound.
func (r *OrderRepo) GetByExternalID(ctx context.Context, externalID string) (*model.Order, error) {
	const q = `SELECT ` + orderCols + ` FROM orders WHERE external_id = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := r.itemsFor(ctx, []uint64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// List returns all orders newest first, items included.
func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	const q = `SELECT ` + orderCols + ` FROM orders ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Order, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

// UpdateStatus sets the order's status by external ID.  ErrNotFound
// when no such order exists.
func (r *OrderRepo) UpdateStatus(ctx context.Context, externalID string, status model.OrderStatus) error {
	const q = `UPDATE orders SET status = ?, updated_at = UTC_TIMESTAMP() WHERE external_id = ?`
	result, err := r.db.ExecContext(ctx, q, string(status), externalID)
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

// itemsFor loads items for the given order IDs in a single query and
// groups them by order.
func (r *OrderRepo) itemsFor(ctx context.Context, orderIDs []uint64) (map[uint64][]model.OrderItem, error) {
	ph := make([]string, len(orderIDs))
	args := make([]interface{}, len(orderIDs))
	for i, id := range orderIDs {
		ph[i] = "?"
		args[i] = id
	}
	q := `SELECT id, order_id, menu_item_id, name, quantity, price_cents, image_url
          FROM order_items WHERE order_id IN (` + strings.Join(ph, ",") + `) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	grouped := make(map[uint64][]model.OrderItem)
	for rows.Next() {
		var it model.OrderItem
		var imageURL sql.NullString
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.Quantity, &it.PriceCents, &imageURL); err != nil {
			return nil, err
		}
		it.ImageURL = imageURL.String
		grouped[it.OrderID] = append(grouped[it.OrderID], it)
	}
	return grouped, rows.Err()
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	var status string
	var note sql.NullString
	if err := row.Scan(
		&o.ID, &o.ExternalID, &o.OrderNumber, &o.CustomerName, &o.TableNumber,
		&o.OrderType, &note, &o.TotalCents, &status, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	o.Note = note.String
	return &o, nil
}
