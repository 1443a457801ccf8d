package calendar

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Scope selects how much of a series an edit or delete touches.
type Scope string

const (
	ScopeSingle Scope = "single"
	ScopeFuture Scope = "future"
	ScopeAll    Scope = "all"
)

// ParseScope validates a scope string, defaulting empty to all.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSingle, ScopeFuture, ScopeAll:
		return Scope(s), nil
	case "":
		return ScopeAll, nil
	}
	return "", &ValidationError{Field: "scope", Reason: fmt.Sprintf("unknown scope %q", s)}
}

// EventInput carries the user-editable fields of an event or series.
type EventInput struct {
	Title       string
	Description string
	Category    string
	StartDate   time.Time
	EndDate     *time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Rule        Rule
}

func (in EventInput) validate() error {
	if in.Title == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if in.StartDate.IsZero() {
		return &ValidationError{Field: "start_date", Reason: "required"}
	}
	if in.EndDate != nil && DateOnly(*in.EndDate).Before(DateOnly(in.StartDate)) {
		return &ValidationError{Field: "end_date", Reason: "must not precede start_date"}
	}
	return in.Rule.Validate()
}

// Editor applies scoped edits and deletes to series. Every mutation
// runs inside a single store transaction, so a split or an override
// either lands completely or not at all.
type Editor struct {
	store Store
}

func NewEditor(store Store) *Editor {
	return &Editor{store: store}
}

// Edit rewrites the series at the given scope.
//
// single: the targeted occurrence is suppressed on the parent and an
// exception event carrying the new fields is inserted in its place.
// future: the parent is terminated the day before the targeted
// occurrence and a new series starting there is inserted.
// all: the parent row itself is rewritten.
func (e *Editor) Edit(ctx context.Context, seriesID uint, instanceDate time.Time, scope Scope, in EventInput, userID uint) (*Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	instanceDate = DateOnly(instanceDate)

	var result *Event
	err := e.store.Transaction(ctx, func(tx Store) error {
		parent, err := loadSeries(ctx, tx, seriesID)
		if err != nil {
			return err
		}

		switch scope {
		case ScopeAll:
			applyInput(parent, in)
			if err := tx.Update(ctx, parent); err != nil {
				return err
			}
			result = parent
			return nil

		case ScopeSingle:
			if err := ensureInstance(parent, instanceDate); err != nil {
				return err
			}
			// An earlier override of the same slot gives way to this one.
			if err := deleteOverrideOn(ctx, tx, parent.ID, instanceDate); err != nil {
				return err
			}
			override := newOverride(parent, instanceDate, in, userID)
			if err := tx.Insert(ctx, override); err != nil {
				return err
			}
			if err := NewExceptionLedger(tx).Add(ctx, parent.ID, instanceDate); err != nil {
				return err
			}
			result = override
			return nil

		case ScopeFuture:
			if err := ensureInstance(parent, instanceDate); err != nil {
				return err
			}
			// Slots at or past the split now belong to the new series,
			// so overrides of those slots go away with the old one.
			if err := deleteOverridesFrom(ctx, tx, parent.ID, instanceDate); err != nil {
				return err
			}
			// Splitting at or before the first occurrence leaves no
			// history to keep, so the parent goes away entirely.
			if !instanceDate.After(DateOnly(parent.StartDate)) {
				if err := tx.SoftDelete(ctx, parent.ID); err != nil {
					return err
				}
			} else if err := truncateBefore(ctx, tx, parent, instanceDate); err != nil {
				return err
			}
			child := &Event{CreatedBy: userID}
			applyInput(child, in)
			if err := tx.Insert(ctx, child); err != nil {
				return err
			}
			result = child
			return nil
		}
		return &ValidationError{Field: "scope", Reason: fmt.Sprintf("unknown scope %q", scope)}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the series at the given scope. single suppresses one
// occurrence, future truncates the series before the occurrence, all
// soft-deletes the row together with its exception events.
func (e *Editor) Delete(ctx context.Context, seriesID uint, instanceDate time.Time, scope Scope) error {
	instanceDate = DateOnly(instanceDate)

	return e.store.Transaction(ctx, func(tx Store) error {
		parent, err := loadSeries(ctx, tx, seriesID)
		if err != nil {
			return err
		}

		switch scope {
		case ScopeAll:
			if err := deleteOverrides(ctx, tx, parent.ID); err != nil {
				return err
			}
			return tx.SoftDelete(ctx, parent.ID)

		case ScopeSingle:
			if err := ensureInstance(parent, instanceDate); err != nil {
				return err
			}
			if err := deleteOverrideOn(ctx, tx, parent.ID, instanceDate); err != nil {
				return err
			}
			return NewExceptionLedger(tx).Add(ctx, parent.ID, instanceDate)

		case ScopeFuture:
			if err := ensureInstance(parent, instanceDate); err != nil {
				return err
			}
			if err := deleteOverridesFrom(ctx, tx, parent.ID, instanceDate); err != nil {
				return err
			}
			// Truncating a series before its own start leaves nothing.
			if !instanceDate.After(DateOnly(parent.StartDate)) {
				return tx.SoftDelete(ctx, parent.ID)
			}
			return truncateBefore(ctx, tx, parent, instanceDate)
		}
		return &ValidationError{Field: "scope", Reason: fmt.Sprintf("unknown scope %q", scope)}
	})
}

// loadSeries fetches a series row, rejecting exception events.
func loadSeries(ctx context.Context, tx Store, seriesID uint) (*Event, error) {
	parent, err := tx.Get(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if parent.IsException() {
		return nil, ErrNotFound
	}
	return parent, nil
}

// ensureInstance verifies the rule would actually produce an occurrence
// on the date. Suppressed dates still validate, so a retried edit of an
// already-overridden slot is not rejected as nonexistent.
func ensureInstance(parent *Event, date time.Time) error {
	probe := *parent
	probe.Exceptions = nil
	occs, err := ExpandSeries(probe, date, date)
	if err != nil {
		return err
	}
	if len(occs) == 0 {
		return &InvalidInstanceError{SeriesID: parent.ID, Date: date}
	}
	return nil
}

// truncateBefore ends the parent series the day before the given date.
func truncateBefore(ctx context.Context, tx Store, parent *Event, date time.Time) error {
	until := date.AddDate(0, 0, -1)
	parent.RecurrenceEnd = string(EndOnDate)
	parent.RecurrenceCount = 0
	parent.RecurrenceUntil = &until
	return tx.Update(ctx, parent)
}

// applyInput copies editable fields and the validated rule onto a row.
func applyInput(ev *Event, in EventInput) {
	ev.Title = in.Title
	ev.Description = in.Description
	ev.Category = in.Category
	ev.StartDate = DateOnly(in.StartDate)
	ev.EndDate = nil
	if in.EndDate != nil {
		d := DateOnly(*in.EndDate)
		ev.EndDate = &d
	}
	ev.StartTime = in.StartTime
	ev.EndTime = in.EndTime
	ev.applyRule(in.Rule)
}

// newOverride builds the exception event replacing one occurrence. Its
// own dates may diverge from the slot it replaces, which is how a
// single occurrence gets moved.
func newOverride(parent *Event, instanceDate time.Time, in EventInput, userID uint) *Event {
	slot := instanceDate
	ev := &Event{
		CreatedBy:     userID,
		ExceptionTo:   &parent.ID,
		ExceptionDate: &slot,
	}
	applyInput(ev, in)
	ev.applyRule(Rule{Freq: FreqNone})
	ev.Exceptions = datatypes.NewJSONSlice([]string{})
	return ev
}

// deleteOverrides soft-deletes every exception event of a series.
func deleteOverrides(ctx context.Context, tx Store, seriesID uint) error {
	return forEachOverride(ctx, tx, seriesID, func(Event) bool { return true })
}

// deleteOverrideOn soft-deletes the exception event occupying one slot.
func deleteOverrideOn(ctx context.Context, tx Store, seriesID uint, date time.Time) error {
	return forEachOverride(ctx, tx, seriesID, func(ev Event) bool {
		return ev.ExceptionDate != nil && DateOnly(*ev.ExceptionDate).Equal(date)
	})
}

// deleteOverridesFrom soft-deletes exception events on or after a date.
func deleteOverridesFrom(ctx context.Context, tx Store, seriesID uint, date time.Time) error {
	return forEachOverride(ctx, tx, seriesID, func(ev Event) bool {
		return ev.ExceptionDate != nil && !DateOnly(*ev.ExceptionDate).Before(date)
	})
}

func forEachOverride(ctx context.Context, tx Store, seriesID uint, match func(Event) bool) error {
	events, err := tx.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if ev.ExceptionTo == nil || *ev.ExceptionTo != seriesID {
			continue
		}
		if !match(ev) {
			continue
		}
		if err := tx.SoftDelete(ctx, ev.ID); err != nil {
			return err
		}
	}
	return nil
}
