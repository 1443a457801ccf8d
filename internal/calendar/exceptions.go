package calendar

import (
	"context"
	"sort"
	"time"

	"gorm.io/datatypes"
)

// ExceptionLedger records suppressed occurrence dates on a series row.
// Adding a date that is already recorded is a no-op, so retried edits
// stay safe.
type ExceptionLedger struct {
	store Store
}

func NewExceptionLedger(store Store) *ExceptionLedger {
	return &ExceptionLedger{store: store}
}

// Add suppresses one occurrence of the series. Idempotent.
func (l *ExceptionLedger) Add(ctx context.Context, seriesID uint, date time.Time) error {
	ev, err := l.store.Get(ctx, seriesID)
	if err != nil {
		return err
	}
	if ev.IsException() {
		return ErrNotFound
	}
	date = DateOnly(date)
	if ev.HasException(date) {
		return nil
	}
	keys := append([]string(ev.Exceptions), FormatDate(date))
	sort.Strings(keys)
	ev.Exceptions = datatypes.NewJSONSlice(keys)
	return l.store.Update(ctx, ev)
}

// List returns the suppressed dates of the series in ascending order.
func (l *ExceptionLedger) List(ctx context.Context, seriesID uint) ([]time.Time, error) {
	ev, err := l.store.Get(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	keys := append([]string(nil), ev.Exceptions...)
	sort.Strings(keys)
	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		d, err := ParseDate(k)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}
