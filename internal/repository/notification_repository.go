package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// NotificationRepo stores admin notifications produced by the broker
// consumer when reservation and order events arrive.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts a notification row.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications (kind, message, ref_external_id, read_flag) VALUES (?, ?, ?, 0)`
	result, err := r.db.ExecContext(ctx, q, n.Kind, n.Message, n.RefExternalID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// List returns notifications newest first.  When unreadOnly is set,
// read ones are skipped.
func (r *NotificationRepo) List(ctx context.Context, unreadOnly bool) ([]model.Notification, error) {
	q := `SELECT id, kind, message, ref_external_id, read_flag, created_at FROM notifications`
	if unreadOnly {
		q += ` WHERE read_flag = 0`
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var ref sql.NullString
		if err := rows.Scan(&n.ID, &n.Kind, &n.Message, &ref, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.RefExternalID = ref.String
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags a notification as read.  ErrNotFound when the ID
// does not exist.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read_flag = 1 WHERE id = ?`, id)
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
