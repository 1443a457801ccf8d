package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{
			name: "none ignores everything else",
			rule: Rule{Freq: FreqNone, Interval: -5, Count: -1},
		},
		{
			name: "weekly never",
			rule: Rule{Freq: FreqWeekly, Interval: 1, Weekdays: []int{1, 3}, End: EndNever},
		},
		{
			name: "monthly after count",
			rule: Rule{Freq: FreqMonthly, Interval: 2, End: EndAfterCount, Count: 12},
		},
		{
			name: "yearly on date",
			rule: Rule{Freq: FreqYearly, Interval: 1, End: EndOnDate, Until: datePtr("2030-12-31")},
		},
		{
			name:    "unknown frequency",
			rule:    Rule{Freq: "daily", Interval: 1, End: EndNever},
			wantErr: true,
		},
		{
			name:    "zero interval",
			rule:    Rule{Freq: FreqWeekly, Interval: 0, End: EndNever},
			wantErr: true,
		},
		{
			name:    "weekday out of range",
			rule:    Rule{Freq: FreqWeekly, Interval: 1, Weekdays: []int{7}, End: EndNever},
			wantErr: true,
		},
		{
			name:    "weekday set on monthly",
			rule:    Rule{Freq: FreqMonthly, Interval: 1, Weekdays: []int{1}, End: EndNever},
			wantErr: true,
		},
		{
			name:    "on-date without until",
			rule:    Rule{Freq: FreqWeekly, Interval: 1, End: EndOnDate},
			wantErr: true,
		},
		{
			name:    "after-count without count",
			rule:    Rule{Freq: FreqWeekly, Interval: 1, End: EndAfterCount},
			wantErr: true,
		},
		{
			name:    "never with leftover count",
			rule:    Rule{Freq: FreqWeekly, Interval: 1, End: EndNever, Count: 10},
			wantErr: true,
		},
		{
			name:    "after-count with leftover until",
			rule:    Rule{Freq: FreqWeekly, Interval: 1, End: EndAfterCount, Count: 3, Until: datePtr("2030-01-01")},
			wantErr: true,
		},
		{
			name:    "unknown terminator",
			rule:    Rule{Freq: FreqWeekly, Interval: 1, End: "sometime"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate()
			if tc.wantErr {
				require.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInstanceIDRoundTrip(t *testing.T) {
	id := NewInstanceID(42, date("2025-03-10"))
	assert.Equal(t, "42_2025-03-10", id.String())

	parsed, err := ParseInstanceID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseInstanceIDRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "42", "_2025-03-10", "0_2025-03-10", "abc_2025-03-10", "42_yesterday"} {
		_, err := ParseInstanceID(s)
		assert.Error(t, err, "input %q", s)
	}
}
