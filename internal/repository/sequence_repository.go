package repository

import (
	"context"
	"database/sql"
	"time"
)

// SequenceRepo owns the sequence_counters table, which holds one
// atomic counter per (kind, scope date) pair.  Sequential order and
// reservation numbers are drawn from it.  Because the increment and
// the read happen in a single statement, concurrent callers can never
// observe the same value; the scan-the-last-record approach this
// replaces had a race between "find highest" and "insert".
type SequenceRepo struct {
	db *sql.DB
}

// NewSequenceRepo returns a SequenceRepo bound to the given database.
func NewSequenceRepo(db *sql.DB) *SequenceRepo { return &SequenceRepo{db: db} }

// NextValue atomically increments and returns the counter for the
// given kind and scope date.  The first call on a fresh (kind, date)
// pair returns 1.  LAST_INSERT_ID(expr) makes the post-increment
// value readable from the same connection without a second query.
func (r *SequenceRepo) NextValue(ctx context.Context, kind string, scopeDate time.Time) (int64, error) {
	const q = `INSERT INTO sequence_counters (kind, scope_date, value)
               VALUES (?, ?, LAST_INSERT_ID(1))
               ON DUPLICATE KEY UPDATE value = LAST_INSERT_ID(value + 1)`
	res, err := r.db.ExecContext(ctx, q, kind, scopeDate.UTC().Format("2006-01-02"))
	if err != nil {
		return 0, err
	}
	v, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return v, nil
}
