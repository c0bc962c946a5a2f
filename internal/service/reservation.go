package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/sequence"
)

// ReservationStore is the persistence surface the reservation service
// needs.  *repository.ReservationRepo satisfies it; tests substitute
// an in-memory fake.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByExternalID(ctx context.Context, externalID string) (*model.Reservation, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Reservation, error)
	List(ctx context.Context, f repository.Filter) ([]model.Reservation, error)
	HasSlotConflict(ctx context.Context, tableNumber string, date time.Time, slot string) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) (bool, error)
}

// TableStore is the read-only table lookup used to denormalize the
// table image onto new reservations.
type TableStore interface {
	GetByNumber(ctx context.Context, number string) (*model.Table, error)
}

// NumberIssuer issues date-scoped sequential identifiers.
type NumberIssuer interface {
	Next(ctx context.Context, kind sequence.Kind, scopeDate time.Time) (string, error)
}

// EventPublisher announces reservation state to observers.  Delivery
// is best-effort: failures are logged by the service and never fail
// the triggering operation.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
	PublishReservationStatusChanged(ctx context.Context, ev queue.ReservationStatusChangedEvent) error
}

// numberAttempts bounds the issue-number-then-insert retry loop.  A
// retry only happens when the unique index on reservation_number
// rejects an insert, which the atomic counter makes unlikely.
const numberAttempts = 3

// ReservationService owns the reservation lifecycle: creation with
// idempotency and slot-conflict checks, time-driven status
// recomputation on read, and the full-collection status sweep.
type ReservationService struct {
	reservations ReservationStore
	tables       TableStore
	numbers      NumberIssuer
	publisher    EventPublisher
	now          func() time.Time
}

// NewReservationService wires the service.  publisher may be nil, in
// which case events are silently skipped.
func NewReservationService(reservations ReservationStore, tables TableStore, numbers NumberIssuer, publisher EventPublisher) *ReservationService {
	if reservations == nil || tables == nil || numbers == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{
		reservations: reservations,
		tables:       tables,
		numbers:      numbers,
		publisher:    publisher,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateReservationInput carries the fields of a reservation request.
type CreateReservationInput struct {
	IdempotencyKey string `json:"idempotency_key"`
	GuestName      string `json:"guest_name"`
	GuestEmail     string `json:"guest_email"`
	TableNumber    string `json:"table_number"`
	Date           string `json:"date"`      // YYYY-MM-DD
	TimeSlot       string `json:"time_slot"` // e.g. "18:00 - 20:00"
	PartySize      int    `json:"party_size"`
	Note           string `json:"note"`
}

// Create validates and persists a new reservation.  Validation runs
// before any storage access; the idempotency and slot-conflict checks
// run before a number is issued so rejected requests never consume
// counter values.  The unique indexes on idempotency_key and
// reservation_number remain the authority under concurrency: an
// insert that loses a race surfaces as ErrDuplicateSubmission or is
// retried with a fresh number.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*model.Reservation, error) {
	if err := validateReservationInput(in); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrIncompleteRequest, in.Date)
	}
	start, end, err := model.SlotWindow(date, in.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteRequest, err)
	}

	if _, err := s.reservations.GetByIdempotencyKey(ctx, in.IdempotencyKey); err == nil {
		return nil, ErrDuplicateSubmission
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	// Conflict detection is by exact slot label, matching the booking
	// rules the frontend exposes: slots are chosen from a fixed list,
	// so two labels never overlap without being equal.
	conflict, err := s.reservations.HasSlotConflict(ctx, in.TableNumber, date, in.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("conflict check: %w", err)
	}
	if conflict {
		return nil, ErrSlotConflict
	}

	// Attach the table photo if the table is known.  A missing table
	// does not block the reservation.
	var imageURL string
	if tbl, err := s.tables.GetByNumber(ctx, in.TableNumber); err == nil {
		imageURL = tbl.ImageURL
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("table lookup: %w", err)
	}

	res := &model.Reservation{
		ExternalID:     uuid.NewString(),
		IdempotencyKey: in.IdempotencyKey,
		GuestName:      in.GuestName,
		GuestEmail:     in.GuestEmail,
		TableNumber:    in.TableNumber,
		Date:           date,
		TimeSlot:       in.TimeSlot,
		PartySize:      in.PartySize,
		Note:           in.Note,
		Status:         model.StatusAt(s.now(), start, end),
		TableImageURL:  imageURL,
	}

	for attempt := 0; ; attempt++ {
		num, err := s.numbers.Next(ctx, sequence.KindReservation, date)
		if err != nil {
			return nil, err
		}
		res.ReservationNumber = num
		err = s.reservations.Create(ctx, res)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateIdempotencyKey) {
			return nil, ErrDuplicateSubmission
		}
		if errors.Is(err, repository.ErrDuplicateNumber) && attempt < numberAttempts-1 {
			continue
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.publishCreated(ctx, res)
	return res, nil
}

// Get returns a reservation by external ID, recomputing and
// persisting its status first so callers always observe the state
// implied by the current time.
func (s *ReservationService) Get(ctx context.Context, externalID string) (*model.Reservation, error) {
	res, err := s.reservations.GetByExternalID(ctx, externalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.refresh(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// List returns reservations matching the filter with refreshed
// statuses.
func (s *ReservationService) List(ctx context.Context, f repository.Filter) ([]model.Reservation, error) {
	all, err := s.reservations.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if _, err := s.refresh(ctx, &all[i]); err != nil {
			return nil, err
		}
	}
	return all, nil
}

// RunStatusSweep recomputes the status of every reservation and
// persists the transitions, returning the number of records that
// changed.  A second sweep with no elapsed time reports zero.  Each
// transition is announced to observers best-effort.
func (s *ReservationService) RunStatusSweep(ctx context.Context) (int, error) {
	all, err := s.reservations.List(ctx, repository.Filter{})
	if err != nil {
		return 0, fmt.Errorf("sweep list: %w", err)
	}
	changed := 0
	for i := range all {
		res := &all[i]
		old := res.Status
		didChange, err := s.refresh(ctx, res)
		if err != nil {
			return changed, err
		}
		if !didChange {
			continue
		}
		changed++
		s.publishStatusChanged(ctx, res, old)
	}
	return changed, nil
}

// BookedSlots returns the slot labels still blocking the given table
// on the given date: reservations in a blocking status whose window
// has not yet closed.
func (s *ReservationService) BookedSlots(ctx context.Context, tableNumber, dateStr string) ([]string, error) {
	if tableNumber == "" || dateStr == "" {
		return nil, fmt.Errorf("%w: table and date are required", ErrIncompleteRequest)
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrIncompleteRequest, dateStr)
	}
	all, err := s.reservations.List(ctx, repository.Filter{
		TableNumber: tableNumber,
		Date:        &date,
		Statuses:    model.ActiveStatuses,
	})
	if err != nil {
		return nil, err
	}
	now := s.now()
	booked := make([]string, 0, len(all))
	for i := range all {
		_, end, err := model.SlotWindow(all[i].Date, all[i].TimeSlot)
		if err != nil {
			continue
		}
		if now.Before(end) {
			booked = append(booked, all[i].TimeSlot)
		}
	}
	return booked, nil
}

// refresh recomputes res.Status for the current time and persists the
// transition when it differs from the stored value.  FINISHED never
// reverts: the in-memory check here and the guarded UPDATE in the
// repository both refuse to downgrade it, so racing sweeps and reads
// stay idempotent.
func (s *ReservationService) refresh(ctx context.Context, res *model.Reservation) (bool, error) {
	if res.Status == model.StatusFinished {
		return false, nil
	}
	computed, err := res.StatusAt(s.now())
	if err != nil {
		// A stored label that no longer parses cannot transition;
		// leave the record as it is rather than failing the read.
		log.Printf("reservation %s: %v", res.ReservationNumber, err)
		return false, nil
	}
	if computed == res.Status {
		return false, nil
	}
	updated, err := s.reservations.UpdateStatus(ctx, res.ID, computed)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	// A zero-row update means a concurrent sweep persisted this
	// transition between our read and now; the stored row already
	// holds the recomputed status, so reads report it either way.
	// Only an actual update counts toward the sweep total.
	res.Status = computed
	return updated, nil
}

func (s *ReservationService) publishCreated(ctx context.Context, res *model.Reservation) {
	if s.publisher == nil {
		return
	}
	ev := queue.ReservationCreatedEvent{
		ExternalID:        res.ExternalID,
		ReservationNumber: res.ReservationNumber,
		GuestName:         res.GuestName,
		TableNumber:       res.TableNumber,
		Date:              res.Date.UTC().Format("2006-01-02"),
		TimeSlot:          res.TimeSlot,
		PartySize:         res.PartySize,
		CreatedAt:         s.now().Format(time.RFC3339),
	}
	if err := s.publisher.PublishReservationCreated(ctx, ev); err != nil {
		log.Printf("publish reservation.created %s: %v", res.ReservationNumber, err)
	}
}

func (s *ReservationService) publishStatusChanged(ctx context.Context, res *model.Reservation, old model.ReservationStatus) {
	if s.publisher == nil {
		return
	}
	ev := queue.ReservationStatusChangedEvent{
		ExternalID:        res.ExternalID,
		ReservationNumber: res.ReservationNumber,
		OldStatus:         string(old),
		NewStatus:         string(res.Status),
		ChangedAt:         s.now().Format(time.RFC3339),
	}
	if err := s.publisher.PublishReservationStatusChanged(ctx, ev); err != nil {
		log.Printf("publish reservation.status_changed %s: %v", res.ReservationNumber, err)
	}
}

func validateReservationInput(in CreateReservationInput) error {
	switch {
	case in.IdempotencyKey == "":
		return fmt.Errorf("%w: idempotency_key is required", ErrIncompleteRequest)
	case in.GuestName == "":
		return fmt.Errorf("%w: guest_name is required", ErrIncompleteRequest)
	case in.GuestEmail == "":
		return fmt.Errorf("%w: guest_email is required", ErrIncompleteRequest)
	case in.TableNumber == "":
		return fmt.Errorf("%w: table_number is required", ErrIncompleteRequest)
	case in.Date == "":
		return fmt.Errorf("%w: date is required", ErrIncompleteRequest)
	case in.TimeSlot == "":
		return fmt.Errorf("%w: time_slot is required", ErrIncompleteRequest)
	case in.PartySize <= 0:
		return fmt.Errorf("%w: party_size must be positive", ErrIncompleteRequest)
	}
	return nil
}
