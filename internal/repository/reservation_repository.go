package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationRepo provides persistence for table reservations.  The
// reservations table carries three unique indexes that back the
// service-level guarantees: idempotency_key (at-most-one record per
// client submission), reservation_number (no two records share a
// generated number) and external_id.  All timestamps are stored in
// UTC; reservation_date is a DATE column.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, external_id, idempotency_key, reservation_number,
    guest_name, guest_email, table_number, reservation_date, time_slot,
    party_size, note, status, table_image_url, created_at, updated_at`

// Create inserts a new reservation and populates the generated ID and
// timestamps on the provided record.  Unique-index violations are
// translated to ErrDuplicateIdempotencyKey / ErrDuplicateNumber so
// callers can branch without touching driver types.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
        (external_id, idempotency_key, reservation_number, guest_name, guest_email,
         table_number, reservation_date, time_slot, party_size, note, status, table_image_url)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.ExternalID, res.IdempotencyKey, res.ReservationNumber,
		res.GuestName, res.GuestEmail, res.TableNumber,
		res.Date.UTC().Format("2006-01-02"), res.TimeSlot,
		res.PartySize, res.Note, string(res.Status), res.TableImageURL,
	)
	if err != nil {
		return translateDuplicate(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Read back timestamps set by the database.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// GetByExternalID returns the reservation with the given external
// UUID or ErrNotFound.
func (r *ReservationRepo) GetByExternalID(ctx context.Context, externalID string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE external_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, externalID))
}

// GetByIdempotencyKey returns the reservation created under the given
// idempotency key or ErrNotFound.
func (r *ReservationRepo) GetByIdempotencyKey(ctx context.Context, key string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE idempotency_key = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, key))
}

// Filter narrows List results.  Zero values mean "no constraint".
type Filter struct {
	TableNumber string
	Date        *time.Time
	Statuses    []model.ReservationStatus
	GuestEmail  string
}

// List returns reservations matching the filter ordered by creation
// time descending (newest first).  An empty filter returns the whole
// collection; the periodic sweep relies on that.
func (r *ReservationRepo) List(ctx context.Context, f Filter) ([]model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations`
	var conds []string
	var args []interface{}
	if f.TableNumber != "" {
		conds = append(conds, "table_number = ?")
		args = append(args, f.TableNumber)
	}
	if f.Date != nil {
		conds = append(conds, "reservation_date = ?")
		args = append(args, f.Date.UTC().Format("2006-01-02"))
	}
	if f.GuestEmail != "" {
		conds = append(conds, "guest_email = ?")
		args = append(args, f.GuestEmail)
	}
	if len(f.Statuses) > 0 {
		ph := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			ph[i] = "?"
			args = append(args, string(s))
		}
		conds = append(conds, "status IN ("+strings.Join(ph, ",")+")")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// HasSlotConflict reports whether the table already has a reservation
// with the exact same slot label on the given date that still blocks
// the slot (status NOT_YET_ACTIVE or ACTIVE).  The check is by label
// equality, not interval overlap.
func (r *ReservationRepo) HasSlotConflict(ctx context.Context, tableNumber string, date time.Time, slot string) (bool, error) {
	const q = `SELECT COUNT(*) FROM reservations
               WHERE table_number = ? AND reservation_date = ? AND time_slot = ?
                 AND status IN (?, ?)`
	var n int
	err := r.db.QueryRowContext(ctx, q, tableNumber, date.UTC().Format("2006-01-02"), slot,
		string(model.StatusNotYetActive), string(model.StatusActive)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateStatus persists a recomputed status.  The WHERE clause keeps
// two invariants: a FINISHED reservation is never rewritten, and a
// no-op update reports false so sweeps can count real changes.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) (bool, error) {
	const q = `UPDATE reservations SET status = ?, updated_at = UTC_TIMESTAMP()
               WHERE id = ? AND status <> ? AND status <> ?`
	result, err := r.db.ExecContext(ctx, q, string(status), id, string(model.StatusFinished), string(status))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ReservationRepo) scanOne(row *sql.Row) (*model.Reservation, error) {
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	var status string
	var note, imageURL sql.NullString
	if err := row.Scan(
		&res.ID, &res.ExternalID, &res.IdempotencyKey, &res.ReservationNumber,
		&res.GuestName, &res.GuestEmail, &res.TableNumber, &res.Date, &res.TimeSlot,
		&res.PartySize, &note, &status, &imageURL, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	res.Status = model.ReservationStatus(status)
	res.Note = note.String
	res.TableImageURL = imageURL.String
	return &res, nil
}
