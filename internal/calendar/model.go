package calendar

import (
	"time"

	"gorm.io/datatypes"
)

// Event is a calendar row. A row is either a series (possibly a
// single-shot one with recurrence none) or an exception event that
// overrides one occurrence of its parent series.
type Event struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:50;not null;index" json:"category"`

	StartDate time.Time  `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Recurrence         string                   `gorm:"size:10;not null;default:none" json:"recurrence"`
	RecurrenceInterval int                      `gorm:"not null;default:1" json:"recurrence_interval"`
	RecurrenceWeekdays datatypes.JSONSlice[int] `gorm:"type:jsonb" json:"recurrence_weekdays"`
	RecurrenceEnd      string                   `gorm:"size:12;not null;default:never" json:"recurrence_end"`
	RecurrenceCount    int                      `gorm:"not null;default:0" json:"recurrence_count"`
	RecurrenceUntil    *time.Time               `gorm:"type:date" json:"recurrence_until,omitempty"`

	// Exceptions holds the dates (YYYY-MM-DD) of suppressed occurrences.
	Exceptions datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"exceptions"`

	// ExceptionTo/ExceptionDate are set only on exception events: the
	// parent series and the occurrence slot this event replaces.
	ExceptionTo   *uint      `gorm:"index" json:"exception_to,omitempty"`
	ExceptionDate *time.Time `gorm:"type:date" json:"exception_date,omitempty"`

	CreatedBy uint      `gorm:"not null;index" json:"created_by"`
	Deleted   bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// IsRecurring reports whether the event repeats.
func (e *Event) IsRecurring() bool {
	return e.Recurrence != "" && e.Recurrence != string(FreqNone)
}

// IsException reports whether the event overrides a single occurrence
// of another series.
func (e *Event) IsException() bool {
	return e.ExceptionTo != nil
}

// Rule assembles the recurrence rule encoded on the row.
func (e *Event) Rule() Rule {
	freq := Frequency(e.Recurrence)
	if freq == "" {
		freq = FreqNone
	}
	end := Terminator(e.RecurrenceEnd)
	if end == "" {
		end = EndNever
	}
	return Rule{
		Freq:     freq,
		Interval: e.RecurrenceInterval,
		Weekdays: []int(e.RecurrenceWeekdays),
		End:      end,
		Count:    e.RecurrenceCount,
		Until:    e.RecurrenceUntil,
	}
}

// HasException reports whether the given occurrence date is suppressed.
func (e *Event) HasException(date time.Time) bool {
	key := FormatDate(date)
	for _, d := range e.Exceptions {
		if d == key {
			return true
		}
	}
	return false
}

// applyRule writes a validated rule back onto the row.
func (e *Event) applyRule(r Rule) {
	e.Recurrence = string(r.Freq)
	e.RecurrenceInterval = r.Interval
	e.RecurrenceWeekdays = datatypes.NewJSONSlice(r.Weekdays)
	e.RecurrenceEnd = string(r.End)
	e.RecurrenceCount = r.Count
	e.RecurrenceUntil = r.Until
	if r.Freq == FreqNone {
		e.RecurrenceInterval = 1
		e.RecurrenceWeekdays = datatypes.NewJSONSlice([]int{})
		e.RecurrenceEnd = string(EndNever)
		e.RecurrenceCount = 0
		e.RecurrenceUntil = nil
	}
}
