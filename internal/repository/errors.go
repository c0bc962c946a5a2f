// Package repository implements the MySQL persistence layer.  This file
// defines sentinel errors shared by the repositories.  Higher layers
// compare against them with errors.Is to branch on failure kinds
// without parsing messages or leaking driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateIdempotencyKey is returned when an insert collides with
// the unique index on reservations.idempotency_key or
// orders.external_id, i.e. the same client submission was already
// processed.
var ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")

// ErrDuplicateNumber is returned when an insert collides with the
// unique index on a generated reservation or order number.  Callers
// retry with a freshly issued number.
var ErrDuplicateNumber = errors.New("duplicate sequential number")

// ErrDuplicateEntry is returned for any other unique-index violation,
// such as creating a table with an existing number.
var ErrDuplicateEntry = errors.New("duplicate entry")

// translateDuplicate maps a MySQL 1062 duplicate-entry error onto the
// sentinel matching the violated index.  The index name is embedded in
// the driver's message ("... for key 'reservations.uq_idempotency_key'").
// Non-duplicate errors are returned unchanged.
func translateDuplicate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return err
	}
	switch {
	case strings.Contains(me.Message, "idempotency_key"), strings.Contains(me.Message, "external_id"):
		return ErrDuplicateIdempotencyKey
	case strings.Contains(me.Message, "reservation_number"), strings.Contains(me.Message, "order_number"):
		return ErrDuplicateNumber
	default:
		return ErrDuplicateEntry
	}
}
