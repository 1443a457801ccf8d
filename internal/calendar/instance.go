package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly truncates a timestamp to a civil date at midnight UTC.
// All occurrence arithmetic runs on these normalized values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// InstanceID addresses one occurrence of a series: the series row ID
// plus the occurrence date. Its string form is "<series>_<YYYY-MM-DD>".
type InstanceID struct {
	SeriesID uint
	Date     time.Time
}

func NewInstanceID(seriesID uint, date time.Time) InstanceID {
	return InstanceID{SeriesID: seriesID, Date: DateOnly(date)}
}

func (id InstanceID) String() string {
	return fmt.Sprintf("%d_%s", id.SeriesID, FormatDate(id.Date))
}

// ParseInstanceID is the inverse of String.
func ParseInstanceID(s string) (InstanceID, error) {
	idPart, datePart, ok := strings.Cut(s, "_")
	if !ok {
		return InstanceID{}, &ValidationError{Field: "instance_id", Reason: fmt.Sprintf("malformed %q", s)}
	}
	seriesID, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil || seriesID == 0 {
		return InstanceID{}, &ValidationError{Field: "instance_id", Reason: fmt.Sprintf("bad series id in %q", s)}
	}
	date, err := ParseDate(datePart)
	if err != nil {
		return InstanceID{}, &ValidationError{Field: "instance_id", Reason: fmt.Sprintf("bad date in %q", s)}
	}
	return InstanceID{SeriesID: uint(seriesID), Date: date}, nil
}
