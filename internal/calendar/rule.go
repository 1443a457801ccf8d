package calendar

import (
	"fmt"
	"time"
)

// Frequency is the recurrence unit of a series
type Frequency string

const (
	FreqNone    Frequency = "none"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
	FreqYearly  Frequency = "yearly"
)

// Terminator describes how a series ends
type Terminator string

const (
	EndNever      Terminator = "never"
	EndOnDate     Terminator = "on-date"
	EndAfterCount Terminator = "after-count"
)

// Rule describes how a series repeats. Weekday indices follow
// time.Weekday numbering (0 = Sunday). An empty weekday set on a weekly
// rule falls back to the start date's weekday.
type Rule struct {
	Freq     Frequency
	Interval int
	Weekdays []int
	End      Terminator
	Count    int
	Until    *time.Time
}

// Validate rejects malformed rules. A rule with Freq none is always valid;
// its remaining fields are ignored.
func (r Rule) Validate() error {
	switch r.Freq {
	case FreqNone:
		return nil
	case FreqWeekly, FreqMonthly, FreqYearly:
	default:
		return &ValidationError{Field: "recurrence", Reason: fmt.Sprintf("unknown frequency %q", r.Freq)}
	}

	if r.Interval < 1 {
		return &ValidationError{Field: "recurrence_interval", Reason: fmt.Sprintf("must be >= 1, got %d", r.Interval)}
	}

	for _, wd := range r.Weekdays {
		if wd < 0 || wd > 6 {
			return &ValidationError{Field: "recurrence_weekdays", Reason: fmt.Sprintf("weekday %d out of range [0,6]", wd)}
		}
	}
	if len(r.Weekdays) > 0 && r.Freq != FreqWeekly {
		return &ValidationError{Field: "recurrence_weekdays", Reason: "weekday set is only valid for weekly recurrence"}
	}

	switch r.End {
	case EndNever:
		if r.Count != 0 {
			return &ValidationError{Field: "recurrence_count", Reason: "count set on an unbounded series"}
		}
		if r.Until != nil {
			return &ValidationError{Field: "recurrence_until", Reason: "until set on an unbounded series"}
		}
	case EndOnDate:
		if r.Until == nil {
			return &ValidationError{Field: "recurrence_until", Reason: "required when recurrence_end is on-date"}
		}
		if r.Count != 0 {
			return &ValidationError{Field: "recurrence_count", Reason: "count set on an on-date series"}
		}
	case EndAfterCount:
		if r.Count < 1 {
			return &ValidationError{Field: "recurrence_count", Reason: fmt.Sprintf("must be >= 1, got %d", r.Count)}
		}
		if r.Until != nil {
			return &ValidationError{Field: "recurrence_until", Reason: "until set on an after-count series"}
		}
	default:
		return &ValidationError{Field: "recurrence_end", Reason: fmt.Sprintf("unknown terminator %q", r.End)}
	}

	return nil
}

// weekdaySet returns the effective weekday filter for a weekly rule,
// falling back to the start date's weekday when none is configured.
func (r Rule) weekdaySet(start time.Time) map[int]bool {
	set := make(map[int]bool, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		set[wd] = true
	}
	if len(set) == 0 {
		set[int(start.Weekday())] = true
	}
	return set
}
