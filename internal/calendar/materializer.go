package calendar

import (
	"sort"
	"time"
)

// Occurrence is one concrete calendar entry inside a query window.
// EventID is the row that produced it; SeriesID is the series it
// represents, which differs from EventID only for overridden slots.
type Occurrence struct {
	InstanceID  string     `json:"instance_id"`
	EventID     uint       `json:"event_id"`
	SeriesID    uint       `json:"series_id"`
	Date        time.Time  `json:"date"`
	EndDate     time.Time  `json:"end_date"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Recurring   bool       `json:"recurring"`
	Overridden  bool       `json:"overridden"`
}

// ExpandSeries materializes the occurrences of a single series that
// fall inside [from, to], both inclusive. Exception events and deleted
// rows produce nothing. Suppressed dates are filtered out, but they
// still consume positions when the rule terminates after a count.
func ExpandSeries(ev Event, from, to time.Time) ([]Occurrence, error) {
	if ev.Deleted || ev.IsException() {
		return nil, nil
	}
	rule := ev.Rule()
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	from, to = DateOnly(from), DateOnly(to)
	if to.Before(from) {
		return nil, nil
	}
	start := DateOnly(ev.StartDate)

	var out []Occurrence
	emit := func(d time.Time) {
		if d.Before(from) || d.After(to) {
			return
		}
		if ev.HasException(d) {
			return
		}
		out = append(out, occurrenceOf(ev, d))
	}

	switch rule.Freq {
	case FreqNone:
		emit(start)
	case FreqWeekly:
		expandWeekly(ev, rule, start, to, emit)
	case FreqMonthly:
		expandStepped(rule, start, to, emit, func(i int) time.Time {
			return addMonthsClamped(start, i*rule.Interval)
		})
	case FreqYearly:
		expandStepped(rule, start, to, emit, func(i int) time.Time {
			return addYearsClamped(start, i*rule.Interval)
		})
	}

	return out, nil
}

// expandStepped walks the candidate sequence candidate(0), candidate(1),
// ... in date order, applying the rule's terminator, until the window's
// upper bound is passed.
func expandStepped(rule Rule, start, to time.Time, emit func(time.Time), candidate func(i int) time.Time) {
	for i := 0; ; i++ {
		if rule.End == EndAfterCount && i >= rule.Count {
			return
		}
		d := candidate(i)
		if rule.End == EndOnDate && d.After(DateOnly(*rule.Until)) {
			return
		}
		if d.After(to) {
			return
		}
		emit(d)
	}
}

// expandWeekly walks interval-spaced week windows from the week of the
// series start, visiting the configured weekdays of each window in date
// order. Candidates before the series start do not exist and do not
// count toward an after-count terminator.
func expandWeekly(ev Event, rule Rule, start, to time.Time, emit func(time.Time)) {
	set := rule.weekdaySet(start)
	// Week windows anchor on the Sunday of the start date's week,
	// matching the weekday numbering.
	weekStart := start.AddDate(0, 0, -int(start.Weekday()))
	produced := 0
	for {
		for day := 0; day < 7; day++ {
			d := weekStart.AddDate(0, 0, day)
			if d.Before(start) {
				continue
			}
			if !set[int(d.Weekday())] {
				continue
			}
			if rule.End == EndAfterCount && produced >= rule.Count {
				return
			}
			if rule.End == EndOnDate && d.After(DateOnly(*rule.Until)) {
				return
			}
			if d.After(to) {
				return
			}
			produced++
			emit(d)
		}
		weekStart = weekStart.AddDate(0, 0, 7*rule.Interval)
	}
}

// addMonthsClamped advances by whole months, clamping the day-of-month
// to the last day of shorter target months (Jan 31 -> Feb 28).
func addMonthsClamped(d time.Time, months int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	day := d.Day()
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// addYearsClamped advances by whole years; only Feb 29 needs clamping.
func addYearsClamped(d time.Time, years int) time.Time {
	year := d.Year() + years
	day := d.Day()
	if last := daysInMonth(year, d.Month()); day > last {
		day = last
	}
	return time.Date(year, d.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// occurrenceOf builds the occurrence for a series on a concrete date,
// carrying over the multi-day span of the series start/end if any.
func occurrenceOf(ev Event, d time.Time) Occurrence {
	end := d
	if ev.EndDate != nil {
		if span := DateOnly(*ev.EndDate).Sub(DateOnly(ev.StartDate)); span > 0 {
			end = d.Add(span)
		}
	}
	return Occurrence{
		InstanceID:  NewInstanceID(ev.ID, d).String(),
		EventID:     ev.ID,
		SeriesID:    ev.ID,
		Date:        d,
		EndDate:     end,
		Title:       ev.Title,
		Description: ev.Description,
		Category:    ev.Category,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		Recurring:   ev.IsRecurring(),
	}
}

// overrideOccurrence builds the occurrence for an exception event. It
// keeps the parent's instance identity so the replaced slot stays
// addressable, while the displayed date may have been moved.
func overrideOccurrence(ev Event) Occurrence {
	d := DateOnly(ev.StartDate)
	end := d
	if ev.EndDate != nil && DateOnly(*ev.EndDate).After(d) {
		end = DateOnly(*ev.EndDate)
	}
	return Occurrence{
		InstanceID:  NewInstanceID(*ev.ExceptionTo, DateOnly(*ev.ExceptionDate)).String(),
		EventID:     ev.ID,
		SeriesID:    *ev.ExceptionTo,
		Date:        d,
		EndDate:     end,
		Title:       ev.Title,
		Description: ev.Description,
		Category:    ev.Category,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		Recurring:   true,
		Overridden:  true,
	}
}

// Materialize expands every series in the slice over [from, to], merges
// in exception events whose displayed date lands in the window, and
// returns the result sorted by date, then start time, then series.
func Materialize(events []Event, from, to time.Time) ([]Occurrence, error) {
	from, to = DateOnly(from), DateOnly(to)
	var out []Occurrence
	for _, ev := range events {
		if ev.Deleted {
			continue
		}
		if ev.IsException() {
			if ev.ExceptionDate == nil {
				continue
			}
			d := DateOnly(ev.StartDate)
			if d.Before(from) || d.After(to) {
				continue
			}
			out = append(out, overrideOccurrence(ev))
			continue
		}
		occs, err := ExpandSeries(ev, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, occs...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		ti, tj := out[i].StartTime, out[j].StartTime
		switch {
		case ti == nil && tj != nil:
			return true
		case ti != nil && tj == nil:
			return false
		case ti != nil && tj != nil && !ti.Equal(*tj):
			return ti.Before(*tj)
		}
		return out[i].SeriesID < out[j].SeriesID
	})
	return out, nil
}
