package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when the requested series does not exist
// (or is an exception event where a series is required).
var ErrNotFound = errors.New("calendar: event not found")

// ValidationError reports a malformed recurrence rule or event payload.
// Writes carrying a ValidationError are rejected before persistence.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("calendar: invalid %s: %s", e.Field, e.Reason)
}

// InvalidInstanceError reports an instance date that the series' rule
// would never have produced.
type InvalidInstanceError struct {
	SeriesID uint
	Date     time.Time
}

func (e *InvalidInstanceError) Error() string {
	return fmt.Sprintf("calendar: series %d has no occurrence on %s", e.SeriesID, e.Date.Format(dateLayout))
}

// StorageError wraps a failure from the underlying store. Multi-statement
// edits roll back fully when one surfaces.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("calendar: storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
