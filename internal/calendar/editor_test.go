package calendar

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeStore is an in-memory Store with snapshot-based transactions.
// Setting failOp makes the named operation fail, for rollback tests.
type fakeStore struct {
	events map[uint]Event
	nextID uint
	failOp string
}

func newFakeStore(events ...Event) *fakeStore {
	f := &fakeStore{events: map[uint]Event{}, nextID: 1}
	for _, ev := range events {
		if ev.ID >= f.nextID {
			f.nextID = ev.ID + 1
		}
		f.events[ev.ID] = ev
	}
	return f
}

func (f *fakeStore) snapshot() map[uint]Event {
	cp := make(map[uint]Event, len(f.events))
	for id, ev := range f.events {
		cp[id] = ev
	}
	return cp
}

func (f *fakeStore) list(includeDeleted bool) []Event {
	out := make([]Event, 0, len(f.events))
	for _, ev := range f.events {
		if ev.Deleted && !includeDeleted {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) ListActive(ctx context.Context, from, to time.Time) ([]Event, error) {
	if f.failOp == "list" {
		return nil, &StorageError{Op: "list", Err: errors.New("boom")}
	}
	return f.list(false), nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]Event, error) {
	if f.failOp == "list" {
		return nil, &StorageError{Op: "list", Err: errors.New("boom")}
	}
	return f.list(false), nil
}

func (f *fakeStore) Get(ctx context.Context, id uint) (*Event, error) {
	if f.failOp == "get" {
		return nil, &StorageError{Op: "get", Err: errors.New("boom")}
	}
	ev, ok := f.events[id]
	if !ok || ev.Deleted {
		return nil, ErrNotFound
	}
	cp := ev
	return &cp, nil
}

func (f *fakeStore) Insert(ctx context.Context, ev *Event) error {
	if f.failOp == "insert" {
		return &StorageError{Op: "insert", Err: errors.New("boom")}
	}
	ev.ID = f.nextID
	f.nextID++
	f.events[ev.ID] = *ev
	return nil
}

func (f *fakeStore) Update(ctx context.Context, ev *Event) error {
	if f.failOp == "update" {
		return &StorageError{Op: "update", Err: errors.New("boom")}
	}
	if _, ok := f.events[ev.ID]; !ok {
		return ErrNotFound
	}
	f.events[ev.ID] = *ev
	return nil
}

func (f *fakeStore) SoftDelete(ctx context.Context, id uint) error {
	if f.failOp == "delete" {
		return &StorageError{Op: "delete", Err: errors.New("boom")}
	}
	ev, ok := f.events[id]
	if !ok || ev.Deleted {
		return ErrNotFound
	}
	ev.Deleted = true
	f.events[id] = ev
	return nil
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(Store) error) error {
	before := f.snapshot()
	beforeNext := f.nextID
	if err := fn(f); err != nil {
		f.events = before
		f.nextID = beforeNext
		return err
	}
	return nil
}

func mondaySeries() Event {
	ev := weeklyEvent("2025-03-03", []int{1}, 1)
	ev.Exceptions = datatypes.NewJSONSlice([]string{})
	return ev
}

func editInput(title string, start string) EventInput {
	return EventInput{
		Title:     title,
		Category:  "work",
		StartDate: date(start),
		Rule:      Rule{Freq: FreqWeekly, Interval: 1, Weekdays: []int{1}, End: EndNever},
	}
}

func TestEditSingleCreatesOverrideAndException(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	override, err := editor.Edit(ctx, 1, date("2025-03-10"), ScopeSingle, EventInput{
		Title:     "standup (moved)",
		Category:  "work",
		StartDate: date("2025-03-11"),
		Rule:      Rule{Freq: FreqNone},
	}, 7)
	require.NoError(t, err)
	require.NotNil(t, override.ExceptionTo)
	assert.Equal(t, uint(1), *override.ExceptionTo)
	assert.Equal(t, "2025-03-10", FormatDate(*override.ExceptionDate))

	parent, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, parent.HasException(date("2025-03-10")))

	occs, err := Materialize(store.list(false), date("2025-03-03"), date("2025-03-16"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-11"}, occurrenceDates(occs))
}

func TestEditSingleReplacesEarlierOverride(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	_, err := editor.Edit(ctx, 1, date("2025-03-10"), ScopeSingle, EventInput{
		Title: "first edit", Category: "work", StartDate: date("2025-03-10"),
		Rule: Rule{Freq: FreqNone},
	}, 7)
	require.NoError(t, err)

	_, err = editor.Edit(ctx, 1, date("2025-03-10"), ScopeSingle, EventInput{
		Title: "second edit", Category: "work", StartDate: date("2025-03-10"),
		Rule: Rule{Freq: FreqNone},
	}, 7)
	require.NoError(t, err)

	occs, err := Materialize(store.list(false), date("2025-03-10"), date("2025-03-10"))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "second edit", occs[0].Title)
}

func TestEditSingleRejectsNonOccurrence(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)

	// 2025-03-11 is a Tuesday; the Monday series never lands there.
	_, err := editor.Edit(context.Background(), 1, date("2025-03-11"), ScopeSingle, editInput("x", "2025-03-11"), 7)
	var ierr *InvalidInstanceError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, uint(1), ierr.SeriesID)

	// Nothing was written.
	assert.Len(t, store.list(false), 1)
}

func TestEditFutureSplitsSeries(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	child, err := editor.Edit(ctx, 1, date("2025-03-17"), ScopeFuture, editInput("retro", "2025-03-17"), 7)
	require.NoError(t, err)

	parent, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, string(EndOnDate), parent.RecurrenceEnd)
	assert.Equal(t, "2025-03-16", FormatDate(*parent.RecurrenceUntil))

	occs, err := Materialize(store.list(false), date("2025-03-03"), date("2025-03-31"))
	require.NoError(t, err)
	require.Len(t, occs, 5)
	for _, o := range occs {
		if o.Date.Before(date("2025-03-17")) {
			assert.Equal(t, "standup", o.Title)
			assert.Equal(t, parent.ID, o.SeriesID)
		} else {
			assert.Equal(t, "retro", o.Title)
			assert.Equal(t, child.ID, o.SeriesID)
		}
	}
}

func TestEditFutureDropsOverridesPastSplit(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	_, err := editor.Edit(ctx, 1, date("2025-03-17"), ScopeSingle, EventInput{
		Title: "standup (edited)", Category: "work", StartDate: date("2025-03-17"),
		Rule: Rule{Freq: FreqNone},
	}, 7)
	require.NoError(t, err)

	child, err := editor.Edit(ctx, 1, date("2025-03-10"), ScopeFuture, editInput("retro", "2025-03-10"), 7)
	require.NoError(t, err)

	// The override slot belongs to the new series now; it must not show
	// up a second time next to the child's own occurrence.
	occs, err := Materialize(store.list(false), date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-10", "2025-03-17", "2025-03-24", "2025-03-31"}, occurrenceDates(occs))
	for _, o := range occs[1:] {
		assert.Equal(t, "retro", o.Title)
		assert.Equal(t, child.ID, o.SeriesID)
	}
}

func TestEditFutureKeepsOverridesBeforeSplit(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	_, err := editor.Edit(ctx, 1, date("2025-03-10"), ScopeSingle, EventInput{
		Title: "standup (moved)", Category: "work", StartDate: date("2025-03-11"),
		Rule: Rule{Freq: FreqNone},
	}, 7)
	require.NoError(t, err)

	_, err = editor.Edit(ctx, 1, date("2025-03-17"), ScopeFuture, editInput("retro", "2025-03-17"), 7)
	require.NoError(t, err)

	occs, err := Materialize(store.list(false), date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-11", "2025-03-17", "2025-03-24", "2025-03-31"}, occurrenceDates(occs))
	assert.Equal(t, "standup (moved)", occs[1].Title)
}

func TestEditFutureAtFirstOccurrenceRetiresParent(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	child, err := editor.Edit(ctx, 1, date("2025-03-03"), ScopeFuture, editInput("new series", "2025-03-03"), 7)
	require.NoError(t, err)

	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	occs, err := Materialize(store.list(false), date("2025-03-03"), date("2025-03-16"))
	require.NoError(t, err)
	require.Len(t, occs, 2)
	assert.Equal(t, child.ID, occs[0].SeriesID)
}

func TestEditAllRewritesRow(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	in := editInput("standup v2", "2025-03-04")
	in.Rule.Weekdays = []int{2}
	_, err := editor.Edit(ctx, 1, time.Time{}, ScopeAll, in, 7)
	require.NoError(t, err)

	occs, err := Materialize(store.list(false), date("2025-03-03"), date("2025-03-16"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-04", "2025-03-11"}, occurrenceDates(occs))
	assert.Equal(t, "standup v2", occs[0].Title)
}

func TestEditValidatesBeforeWriting(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)

	in := editInput("bad", "2025-03-03")
	in.Rule.Interval = 0
	_, err := editor.Edit(context.Background(), 1, date("2025-03-03"), ScopeAll, in, 7)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	parent, getErr := store.Get(context.Background(), 1)
	require.NoError(t, getErr)
	assert.Equal(t, "standup", parent.Title)
}

func TestEditUnknownSeries(t *testing.T) {
	store := newFakeStore()
	editor := NewEditor(store)

	_, err := editor.Edit(context.Background(), 99, date("2025-03-03"), ScopeAll, editInput("x", "2025-03-03"), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditRejectsExceptionEventAsSeries(t *testing.T) {
	parentID := uint(1)
	slot := date("2025-03-10")
	override := Event{
		ID:            2,
		Title:         "override",
		StartDate:     slot,
		Recurrence:    string(FreqNone),
		ExceptionTo:   &parentID,
		ExceptionDate: &slot,
	}
	store := newFakeStore(mondaySeries(), override)
	editor := NewEditor(store)

	_, err := editor.Edit(context.Background(), 2, slot, ScopeAll, editInput("x", "2025-03-10"), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditSingleRollsBackOnStorageError(t *testing.T) {
	store := newFakeStore(mondaySeries())
	store.failOp = "insert"
	editor := NewEditor(store)

	_, err := editor.Edit(context.Background(), 1, date("2025-03-10"), ScopeSingle, editInput("x", "2025-03-10"), 7)
	var serr *StorageError
	require.ErrorAs(t, err, &serr)

	// The parent keeps its ledger and no override row survives.
	store.failOp = ""
	parent, getErr := store.Get(context.Background(), 1)
	require.NoError(t, getErr)
	assert.False(t, parent.HasException(date("2025-03-10")))
	assert.Len(t, store.list(false), 1)
}

func TestDeleteSingleIsIdempotent(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	require.NoError(t, editor.Delete(ctx, 1, date("2025-03-10"), ScopeSingle))
	require.NoError(t, editor.Delete(ctx, 1, date("2025-03-10"), ScopeSingle))

	parent, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-10"}, []string(parent.Exceptions))

	occs, err := Materialize(store.list(false), date("2025-03-03"), date("2025-03-16"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03"}, occurrenceDates(occs))
}

func TestDeleteFutureTruncates(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	require.NoError(t, editor.Delete(ctx, 1, date("2025-03-17"), ScopeFuture))

	occs, err := Materialize(store.list(false), date("2025-03-03"), date("2025-04-30"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-10"}, occurrenceDates(occs))
}

func TestDeleteFutureAtFirstOccurrenceRemovesSeries(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)

	require.NoError(t, editor.Delete(context.Background(), 1, date("2025-03-03"), ScopeFuture))
	assert.Empty(t, store.list(false))
}

func TestDeleteAllRemovesSeriesAndOverrides(t *testing.T) {
	store := newFakeStore(mondaySeries())
	editor := NewEditor(store)
	ctx := context.Background()

	_, err := editor.Edit(ctx, 1, date("2025-03-10"), ScopeSingle, EventInput{
		Title: "moved", Category: "work", StartDate: date("2025-03-11"),
		Rule: Rule{Freq: FreqNone},
	}, 7)
	require.NoError(t, err)

	require.NoError(t, editor.Delete(ctx, 1, time.Time{}, ScopeAll))

	occs, merr := Materialize(store.list(false), date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, merr)
	assert.Empty(t, occs)
}

func TestExceptionLedgerIdempotentAndSorted(t *testing.T) {
	store := newFakeStore(mondaySeries())
	ledger := NewExceptionLedger(store)
	ctx := context.Background()

	require.NoError(t, ledger.Add(ctx, 1, date("2025-03-17")))
	require.NoError(t, ledger.Add(ctx, 1, date("2025-03-10")))
	require.NoError(t, ledger.Add(ctx, 1, date("2025-03-17")))

	dates, err := ledger.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "2025-03-10", FormatDate(dates[0]))
	assert.Equal(t, "2025-03-17", FormatDate(dates[1]))
}
