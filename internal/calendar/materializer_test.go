package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func occurrenceDates(occs []Occurrence) []string {
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		out = append(out, FormatDate(o.Date))
	}
	return out
}

func weeklyEvent(start string, weekdays []int, interval int) Event {
	return Event{
		ID:                 1,
		Title:              "standup",
		Category:           "work",
		StartDate:          date(start),
		Recurrence:         string(FreqWeekly),
		RecurrenceInterval: interval,
		RecurrenceWeekdays: datatypes.NewJSONSlice(weekdays),
		RecurrenceEnd:      string(EndNever),
	}
}

func TestExpandNonRecurring(t *testing.T) {
	ev := Event{
		ID:         1,
		Title:      "dentist",
		Category:   "personal",
		StartDate:  date("2025-03-10"),
		Recurrence: string(FreqNone),
	}

	occs, err := ExpandSeries(ev, date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "1_2025-03-10", occs[0].InstanceID)
	assert.False(t, occs[0].Recurring)

	occs, err = ExpandSeries(ev, date("2025-04-01"), date("2025-04-30"))
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestExpandWeeklyTwoWeekdays(t *testing.T) {
	// 2025-03-03 is a Monday; Tuesdays and Thursdays over four weeks.
	ev := weeklyEvent("2025-03-03", []int{2, 4}, 1)

	occs, err := ExpandSeries(ev, date("2025-03-03"), date("2025-03-30"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2025-03-04", "2025-03-06",
		"2025-03-11", "2025-03-13",
		"2025-03-18", "2025-03-20",
		"2025-03-25", "2025-03-27",
	}, occurrenceDates(occs))
}

func TestExpandWeeklyIntervalSkipsWeeks(t *testing.T) {
	ev := weeklyEvent("2025-03-03", []int{1}, 2)

	occs, err := ExpandSeries(ev, date("2025-03-01"), date("2025-04-30"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-17", "2025-03-31", "2025-04-14", "2025-04-28"}, occurrenceDates(occs))
}

func TestExpandWeeklyDefaultsToStartWeekday(t *testing.T) {
	ev := weeklyEvent("2025-03-03", nil, 1)

	occs, err := ExpandSeries(ev, date("2025-03-01"), date("2025-03-17"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-10", "2025-03-17"}, occurrenceDates(occs))
}

func TestExpandMonthlyClampsShortMonths(t *testing.T) {
	ev := Event{
		ID:                 1,
		StartDate:          date("2025-01-31"),
		Recurrence:         string(FreqMonthly),
		RecurrenceInterval: 1,
		RecurrenceEnd:      string(EndNever),
	}

	occs, err := ExpandSeries(ev, date("2025-02-01"), date("2025-04-30"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02-28", "2025-03-31", "2025-04-30"}, occurrenceDates(occs))
}

func TestExpandYearlyClampsLeapDay(t *testing.T) {
	ev := Event{
		ID:                 1,
		StartDate:          date("2024-02-29"),
		Recurrence:         string(FreqYearly),
		RecurrenceInterval: 1,
		RecurrenceEnd:      string(EndNever),
	}

	occs, err := ExpandSeries(ev, date("2025-01-01"), date("2028-12-31"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02-28", "2026-02-28", "2027-02-28", "2028-02-29"}, occurrenceDates(occs))
}

func TestExpandAfterCountExhausts(t *testing.T) {
	ev := weeklyEvent("2025-01-06", nil, 1)
	ev.RecurrenceEnd = string(EndAfterCount)
	ev.RecurrenceCount = 5

	occs, err := ExpandSeries(ev, date("2025-01-01"), date("2025-02-28"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-06", "2025-01-13", "2025-01-20", "2025-01-27", "2025-02-03"}, occurrenceDates(occs))

	// A window entirely past the fifth occurrence sees nothing.
	occs, err = ExpandSeries(ev, date("2025-03-01"), date("2025-12-31"))
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestExpandCountsSuppressedCandidates(t *testing.T) {
	// Suppressing the second candidate does not push the terminator out:
	// the series still ends after its third theoretical occurrence.
	ev := weeklyEvent("2025-01-06", nil, 1)
	ev.RecurrenceEnd = string(EndAfterCount)
	ev.RecurrenceCount = 3
	ev.Exceptions = datatypes.NewJSONSlice([]string{"2025-01-13"})

	occs, err := ExpandSeries(ev, date("2025-01-01"), date("2025-02-28"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-06", "2025-01-20"}, occurrenceDates(occs))
}

func TestExpandUntilIsInclusive(t *testing.T) {
	ev := weeklyEvent("2025-03-03", nil, 1)
	ev.RecurrenceEnd = string(EndOnDate)
	ev.RecurrenceUntil = datePtr("2025-03-17")

	occs, err := ExpandSeries(ev, date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-10", "2025-03-17"}, occurrenceDates(occs))
}

func TestExpandCarriesMultiDaySpan(t *testing.T) {
	end := date("2025-03-05")
	ev := weeklyEvent("2025-03-03", []int{1}, 1)
	ev.EndDate = &end

	occs, err := ExpandSeries(ev, date("2025-03-09"), date("2025-03-15"))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "2025-03-10", FormatDate(occs[0].Date))
	assert.Equal(t, "2025-03-12", FormatDate(occs[0].EndDate))
}

func TestExpandSkipsExceptionAndDeletedRows(t *testing.T) {
	ev := weeklyEvent("2025-03-03", []int{1}, 1)
	ev.Deleted = true
	occs, err := ExpandSeries(ev, date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	assert.Empty(t, occs)

	parentID := uint(9)
	exceptionDate := date("2025-03-10")
	override := Event{
		ID:            2,
		StartDate:     date("2025-03-10"),
		Recurrence:    string(FreqNone),
		ExceptionTo:   &parentID,
		ExceptionDate: &exceptionDate,
	}
	occs, err = ExpandSeries(override, date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestMaterializeMergesMovedOverride(t *testing.T) {
	parent := weeklyEvent("2025-03-03", []int{1}, 1)
	parent.Exceptions = datatypes.NewJSONSlice([]string{"2025-03-10"})

	parentID := parent.ID
	slot := date("2025-03-10")
	override := Event{
		ID:            2,
		Title:         "standup (moved)",
		Category:      "work",
		StartDate:     date("2025-03-11"),
		Recurrence:    string(FreqNone),
		ExceptionTo:   &parentID,
		ExceptionDate: &slot,
	}

	occs, err := Materialize([]Event{parent, override}, date("2025-03-03"), date("2025-03-16"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-03", "2025-03-11"}, occurrenceDates(occs))

	moved := occs[1]
	assert.True(t, moved.Overridden)
	assert.Equal(t, "standup (moved)", moved.Title)
	assert.Equal(t, parent.ID, moved.SeriesID)
	assert.Equal(t, override.ID, moved.EventID)
	// The replaced slot stays addressable under the parent series.
	assert.Equal(t, "1_2025-03-10", moved.InstanceID)
}

func TestMaterializeSortsByDateAndTime(t *testing.T) {
	nine := time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC)
	eight := time.Date(0, 1, 1, 8, 0, 0, 0, time.UTC)

	late := Event{ID: 1, Title: "late", StartDate: date("2025-03-10"), Recurrence: string(FreqNone), StartTime: &nine}
	early := Event{ID: 2, Title: "early", StartDate: date("2025-03-10"), Recurrence: string(FreqNone), StartTime: &eight}
	allDay := Event{ID: 3, Title: "all-day", StartDate: date("2025-03-10"), Recurrence: string(FreqNone)}

	occs, err := Materialize([]Event{late, early, allDay}, date("2025-03-10"), date("2025-03-10"))
	require.NoError(t, err)
	require.Len(t, occs, 3)
	assert.Equal(t, "all-day", occs[0].Title)
	assert.Equal(t, "early", occs[1].Title)
	assert.Equal(t, "late", occs[2].Title)
}
