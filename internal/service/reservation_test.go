package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/sequence"
)

// fakeReservationStore mimics the MySQL repository including its
// unique indexes and the guarded status update.
type fakeReservationStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   []*model.Reservation
}

func (f *fakeReservationStore) Create(_ context.Context, res *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.IdempotencyKey == res.IdempotencyKey {
			return repository.ErrDuplicateIdempotencyKey
		}
		if r.ReservationNumber == res.ReservationNumber {
			return repository.ErrDuplicateNumber
		}
	}
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now().UTC()
	res.UpdatedAt = res.CreatedAt
	clone := *res
	f.rows = append(f.rows, &clone)
	return nil
}

func (f *fakeReservationStore) GetByExternalID(_ context.Context, externalID string) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ExternalID == externalID {
			clone := *r
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReservationStore) GetByIdempotencyKey(_ context.Context, key string) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.IdempotencyKey == key {
			clone := *r
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReservationStore) List(_ context.Context, flt repository.Filter) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range f.rows {
		if flt.TableNumber != "" && r.TableNumber != flt.TableNumber {
			continue
		}
		if flt.Date != nil && !r.Date.Equal(*flt.Date) {
			continue
		}
		if len(flt.Statuses) > 0 {
			ok := false
			for _, s := range flt.Statuses {
				if r.Status == s {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReservationStore) HasSlotConflict(_ context.Context, tableNumber string, date time.Time, slot string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.TableNumber == tableNumber && r.Date.Equal(date) && r.TimeSlot == slot &&
			(r.Status == model.StatusNotYetActive || r.Status == model.StatusActive) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationStore) UpdateStatus(_ context.Context, id uint64, status model.ReservationStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID != id {
			continue
		}
		if r.Status == model.StatusFinished || r.Status == status {
			return false, nil
		}
		r.Status = status
		return true, nil
	}
	return false, nil
}

type fakeTableStore struct {
	tables map[string]*model.Table
}

func (f *fakeTableStore) GetByNumber(_ context.Context, number string) (*model.Table, error) {
	if t, ok := f.tables[number]; ok {
		return t, nil
	}
	return nil, repository.ErrNotFound
}

// fakeIssuer issues properly formatted numbers from an in-memory counter.
type fakeIssuer struct {
	mu     sync.Mutex
	values map[string]int64
}

func (f *fakeIssuer) Next(_ context.Context, kind sequence.Kind, scopeDate time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = make(map[string]int64)
	}
	key := kind.Prefix + scopeDate.UTC().Format("20060102")
	f.values[key]++
	return sequence.Format(kind, scopeDate, f.values[key]), nil
}

type fakePublisher struct {
	mu      sync.Mutex
	created []queue.ReservationCreatedEvent
	changed []queue.ReservationStatusChangedEvent
}

func (f *fakePublisher) PublishReservationCreated(_ context.Context, ev queue.ReservationCreatedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, ev)
	return nil
}

func (f *fakePublisher) PublishReservationStatusChanged(_ context.Context, ev queue.ReservationStatusChangedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, ev)
	return nil
}

func newTestService() (*ReservationService, *fakeReservationStore, *fakePublisher) {
	store := &fakeReservationStore{}
	pub := &fakePublisher{}
	tables := &fakeTableStore{tables: map[string]*model.Table{
		"5": {ID: 5, Number: "5", Capacity: 4, ImageURL: "https://img.example/table5.jpg"},
	}}
	svc := NewReservationService(store, tables, &fakeIssuer{}, pub)
	// Pin the clock a few days before the reservations the tests book.
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }
	return svc, store, pub
}

func validInput() CreateReservationInput {
	return CreateReservationInput{
		IdempotencyKey: "key-1",
		GuestName:      "Alice",
		GuestEmail:     "alice@example.com",
		TableNumber:    "5",
		Date:           "2024-01-15",
		TimeSlot:       "18:00 - 20:00",
		PartySize:      4,
	}
}

func TestCreate_NumbersAreSequentialPerDate(t *testing.T) {
	svc, _, _ := newTestService()
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "RES-20240115-001", first.ReservationNumber)
	assert.Equal(t, model.StatusNotYetActive, first.Status)
	assert.Equal(t, "https://img.example/table5.jpg", first.TableImageURL)
	assert.NotEmpty(t, first.ExternalID)

	second := validInput()
	second.IdempotencyKey = "key-2"
	second.TableNumber = "7" // unknown table: allowed, just no image
	res2, err := svc.Create(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "RES-20240115-002", res2.ReservationNumber)
	assert.Empty(t, res2.TableImageURL)

	// A different reservation date scopes to its own counter.
	third := validInput()
	third.IdempotencyKey = "key-3"
	third.TableNumber = "8"
	third.Date = "2024-01-16"
	res3, err := svc.Create(ctx, third)
	require.NoError(t, err)
	assert.Equal(t, "RES-20240116-001", res3.ReservationNumber)
}

func TestCreate_Validation(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	cases := map[string]func(*CreateReservationInput){
		"missing idempotency key": func(in *CreateReservationInput) { in.IdempotencyKey = "" },
		"missing guest name":      func(in *CreateReservationInput) { in.GuestName = "" },
		"missing email":           func(in *CreateReservationInput) { in.GuestEmail = "" },
		"missing table":           func(in *CreateReservationInput) { in.TableNumber = "" },
		"missing date":            func(in *CreateReservationInput) { in.Date = "" },
		"missing slot":            func(in *CreateReservationInput) { in.TimeSlot = "" },
		"zero party size":         func(in *CreateReservationInput) { in.PartySize = 0 },
		"bad date":                func(in *CreateReservationInput) { in.Date = "15-01-2024" },
		"bad slot label":          func(in *CreateReservationInput) { in.TimeSlot = "evening" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, ErrIncompleteRequest)
		})
	}
	// Validation failures never reach storage.
	assert.Empty(t, store.rows)
}

func TestCreate_DuplicateSubmission(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	// Same idempotency key, even with different fields, is rejected.
	retry := validInput()
	retry.TableNumber = "9"
	retry.TimeSlot = "20:00 - 22:00"
	_, err = svc.Create(ctx, retry)
	assert.ErrorIs(t, err, ErrDuplicateSubmission)
}

func TestCreate_SlotConflict(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	same := validInput()
	same.IdempotencyKey = "key-other"
	_, err = svc.Create(ctx, same)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Different table, same slot: fine.
	other := validInput()
	other.IdempotencyKey = "key-table9"
	other.TableNumber = "9"
	_, err = svc.Create(ctx, other)
	assert.NoError(t, err)

	// Same table, different slot label: fine (label equality check).
	later := validInput()
	later.IdempotencyKey = "key-later"
	later.TimeSlot = "20:00 - 22:00"
	_, err = svc.Create(ctx, later)
	assert.NoError(t, err)
}

func TestCreate_PublishesEvent(t *testing.T) {
	svc, _, pub := newTestService()

	res, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.Len(t, pub.created, 1)
	assert.Equal(t, res.ReservationNumber, pub.created[0].ReservationNumber)
	assert.Equal(t, "2024-01-15", pub.created[0].Date)
}

func TestStatusTransitions(t *testing.T) {
	// Slot 18:00-20:00 on 2024-01-15.
	svc, _, _ := newTestService()
	ctx := context.Background()
	res, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	at := func(hour, min int) func() time.Time {
		return func() time.Time { return time.Date(2024, 1, 15, hour, min, 0, 0, time.UTC) }
	}

	svc.now = at(17, 59)
	got, err := svc.Get(ctx, res.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotYetActive, got.Status)

	svc.now = at(18, 0)
	got, err = svc.Get(ctx, res.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)

	svc.now = at(19, 59)
	got, err = svc.Get(ctx, res.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)

	svc.now = at(20, 0)
	got, err = svc.Get(ctx, res.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinished, got.Status)
}

func TestSweep_CountsChangesAndIsIdempotent(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }
	for i, slot := range []string{"12:00 - 14:00", "18:00 - 20:00"} {
		in := validInput()
		in.IdempotencyKey = slot
		in.TableNumber = string(rune('1' + i))
		in.TimeSlot = slot
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	// At 13:00 the lunch slot is active, the dinner slot is not yet.
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC) }
	changed, err := svc.RunStatusSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	require.Len(t, pub.changed, 1)
	assert.Equal(t, string(model.StatusNotYetActive), pub.changed[0].OldStatus)
	assert.Equal(t, string(model.StatusActive), pub.changed[0].NewStatus)

	// No time elapsed: the second sweep is a no-op.
	changed, err = svc.RunStatusSweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	// Next day both slots are finished.
	svc.now = func() time.Time { return time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC) }
	changed, err = svc.RunStatusSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
}

func TestSweep_NeverRevertsFinished(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2024, 1, 15, 21, 0, 0, 0, time.UTC) }
	_, err = svc.RunStatusSweep(ctx)
	require.NoError(t, err)

	// Clock anomaly: time appears to run backwards into the window.
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC) }
	changed, err := svc.RunStatusSweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	got, err := store.GetByExternalID(ctx, res.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinished, got.Status)
}

func TestBookedSlots(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }
	for _, slot := range []string{"12:00 - 14:00", "18:00 - 20:00"} {
		in := validInput()
		in.IdempotencyKey = slot
		in.TimeSlot = slot
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	booked, err := svc.BookedSlots(ctx, "5", "2024-01-15")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"12:00 - 14:00", "18:00 - 20:00"}, booked)

	// After lunch has ended only the dinner slot still blocks.
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC) }
	booked, err = svc.BookedSlots(ctx, "5", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"18:00 - 20:00"}, booked)

	_, err = svc.BookedSlots(ctx, "", "2024-01-15")
	assert.ErrorIs(t, err, ErrIncompleteRequest)
}

// staleReadStore returns reservations with an outdated status, as if
// a concurrent sweep persisted a transition between our read and the
// guarded update.
type staleReadStore struct {
	*fakeReservationStore
	staleStatus model.ReservationStatus
}

func (s *staleReadStore) GetByExternalID(ctx context.Context, externalID string) (*model.Reservation, error) {
	res, err := s.fakeReservationStore.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	res.Status = s.staleStatus
	return res, nil
}

func TestGet_RacingSweepStillReportsRecomputedStatus(t *testing.T) {
	inner := &fakeReservationStore{}
	store := &staleReadStore{fakeReservationStore: inner, staleStatus: model.StatusNotYetActive}
	tables := &fakeTableStore{tables: map[string]*model.Table{}}
	svc := NewReservationService(store, tables, &fakeIssuer{}, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	res, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	// Another sweep already persisted ACTIVE; our read sees the old
	// value and the guarded update matches zero rows.
	changed, err := inner.UpdateStatus(ctx, res.ID, model.StatusActive)
	require.NoError(t, err)
	require.True(t, changed)

	svc.now = func() time.Time { return time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC) }
	got, err := svc.Get(ctx, res.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_RetriesOnDuplicateNumber(t *testing.T) {
	store := &fakeReservationStore{}
	tables := &fakeTableStore{tables: map[string]*model.Table{}}
	svc := NewReservationService(store, tables, &fakeIssuer{}, nil)
	ctx := context.Background()

	// Seed a row holding RES-20240115-001 under a foreign key so the
	// first issued number collides.
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Create(ctx, &model.Reservation{
		ExternalID:        "seed",
		IdempotencyKey:    "seed-key",
		ReservationNumber: "RES-20240115-001",
		TableNumber:       "1",
		Date:              date,
		TimeSlot:          "10:00 - 12:00",
		Status:            model.StatusFinished,
	}))

	res, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "RES-20240115-002", res.ReservationNumber)
}
