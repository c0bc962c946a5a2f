package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// FeedbackRepo stores guest ratings of orders.
type FeedbackRepo struct {
	db *sql.DB
}

// NewFeedbackRepo returns a FeedbackRepo bound to the given database.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Create inserts a feedback row.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	const q = `INSERT INTO feedback (order_external_id, customer_name, rating, comment) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, f.OrderExternalID, f.CustomerName, f.Rating, f.Comment)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	const sel = `SELECT created_at FROM feedback WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, f.ID).Scan(&f.CreatedAt)
}

// List returns all feedback newest first.
func (r *FeedbackRepo) List(ctx context.Context) ([]model.Feedback, error) {
	const q = `SELECT id, order_external_id, customer_name, rating, comment, created_at
               FROM feedback ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Feedback, 0)
	for rows.Next() {
		var f model.Feedback
		var comment sql.NullString
		if err := rows.Scan(&f.ID, &f.OrderExternalID, &f.CustomerName, &f.Rating, &comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Comment = comment.String
		out = append(out, f)
	}
	return out, rows.Err()
}
