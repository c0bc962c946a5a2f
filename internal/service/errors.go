// Package service holds the business logic for reservations and
// orders.  This file defines the error taxonomy exposed to the HTTP
// layer.  Every failure carries a distinct sentinel so handlers can
// branch with errors.Is and map to a machine-readable code; callers
// never need to parse messages.
package service

import "errors"

// ErrIncompleteRequest marks client input that fails validation.  It
// is detected before any storage access.
var ErrIncompleteRequest = errors.New("incomplete request")

// ErrDuplicateSubmission marks a creation whose idempotency key was
// already used.  The original record stands; the retry is rejected.
var ErrDuplicateSubmission = errors.New("duplicate submission")

// ErrSlotConflict marks a reservation for a table whose slot label is
// already booked on that date.
var ErrSlotConflict = errors.New("table already booked for this slot")

// ErrNotFound marks a lookup miss.
var ErrNotFound = errors.New("not found")
