package model

import (
	"fmt"
	"strings"
	"time"
)

// ReservationStatus enumerates the lifecycle states of a table
// reservation.  The lifecycle is linear: a reservation starts as
// NOT_YET_ACTIVE, becomes ACTIVE when its time window opens and
// FINISHED when the window closes.  FINISHED is terminal and is
// never left again.
type ReservationStatus string

const (
	StatusNotYetActive ReservationStatus = "NOT_YET_ACTIVE"
	StatusActive       ReservationStatus = "ACTIVE"
	StatusFinished     ReservationStatus = "FINISHED"
)

// SlotDuration is the fixed length of every reservation slot.  The
// end of a slot is always derived from its start; the label's end
// portion is informational only.
const SlotDuration = 2 * time.Hour

// ActiveStatuses lists the statuses under which a reservation still
// blocks its table/slot for conflict checking.
var ActiveStatuses = []ReservationStatus{StatusNotYetActive, StatusActive}

// Reservation records a guest's booking of a restaurant table for a
// two hour slot on a specific calendar date.  All timestamps are
// stored in UTC.
//
// Fields:
//  ID                – primary key identifier.
//  ExternalID        – opaque UUID exposed to clients.
//  IdempotencyKey    – client-supplied token; unique, guards retries.
//  ReservationNumber – human readable RES-YYYYMMDD-NNN identifier,
//                      scoped to the reservation date.
//  GuestName         – name of the guest.
//  GuestEmail        – contact email of the guest.
//  TableNumber       – number of the reserved table (weak reference).
//  Date              – calendar date of the reservation (midnight UTC).
//  TimeSlot          – slot label, e.g. "18:00 - 20:00".
//  PartySize         – number of guests, positive.
//  Note              – optional free text.
//  Status            – lifecycle state, derived from the clock.
//  TableImageURL     – image of the table, denormalized at creation.
type Reservation struct {
	ID                uint64            `json:"id"`
	ExternalID        string            `json:"external_id"`
	IdempotencyKey    string            `json:"-"`
	ReservationNumber string            `json:"reservation_number"`
	GuestName         string            `json:"guest_name"`
	GuestEmail        string            `json:"guest_email"`
	TableNumber       string            `json:"table_number"`
	Date              time.Time         `json:"date"`
	TimeSlot          string            `json:"time_slot"`
	PartySize         int               `json:"party_size"`
	Note              string            `json:"note,omitempty"`
	Status            ReservationStatus `json:"status"`
	TableImageURL     string            `json:"table_image_url,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// SlotWindow resolves a slot label against a reservation date and
// returns the absolute start and end of the slot in UTC.  The label
// must begin with an HH:MM start time ("18:00 - 20:00" or "18:00");
// the end is always start plus SlotDuration regardless of what the
// label claims.
func SlotWindow(date time.Time, label string) (start, end time.Time, err error) {
	startPart := label
	if i := strings.Index(label, " - "); i >= 0 {
		startPart = label[:i]
	}
	startPart = strings.TrimSpace(startPart)
	t, err := time.Parse("15:04", startPart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time slot %q: %w", label, err)
	}
	start = time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return start, start.Add(SlotDuration), nil
}

// StatusAt returns the lifecycle state implied by the clock for a
// slot window.  It is a pure function; the non-reversion guarantee
// for FINISHED is enforced by the callers that persist the result.
func StatusAt(now, start, end time.Time) ReservationStatus {
	switch {
	case now.Before(start):
		return StatusNotYetActive
	case now.Before(end):
		return StatusActive
	default:
		return StatusFinished
	}
}

// StatusAt computes the reservation's state for the given instant
// from its date and slot label.
func (r *Reservation) StatusAt(now time.Time) (ReservationStatus, error) {
	start, end, err := SlotWindow(r.Date, r.TimeSlot)
	if err != nil {
		return "", err
	}
	return StatusAt(now, start, end), nil
}
