package todo

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func TestIsOverdue(t *testing.T) {
	ref := day("2025-03-10")

	tests := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{"no due date", nil, false},
		{"yesterday", dayPtr("2025-03-09"), true},
		{"today", dayPtr("2025-03-10"), false},
		{"tomorrow", dayPtr("2025-03-11"), false},
		{"far past", dayPtr("2024-01-01"), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOverdue(tc.due, ref); got != tc.want {
				t.Errorf("IsOverdue(%v, %v) = %v, want %v", tc.due, ref, got, tc.want)
			}
		})
	}
}

func TestIsDueSoon(t *testing.T) {
	ref := day("2025-03-10")

	tests := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{"no due date", nil, false},
		{"yesterday", dayPtr("2025-03-09"), false},
		{"today", dayPtr("2025-03-10"), true},
		{"in three days", dayPtr("2025-03-13"), true},
		{"in four days", dayPtr("2025-03-14"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDueSoon(tc.due, ref); got != tc.want {
				t.Errorf("IsDueSoon(%v, %v) = %v, want %v", tc.due, ref, got, tc.want)
			}
		})
	}
}

func TestIsDueSoonIgnoresClockTime(t *testing.T) {
	// A reference late in the day must not shift the window.
	ref := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	if !IsDueSoon(dayPtr("2025-03-13"), ref) {
		t.Error("due date three days out should be due soon regardless of clock time")
	}
}

func TestReorderPositions(t *testing.T) {
	base := []uint{1, 2, 3, 4}

	tests := []struct {
		name   string
		id     uint
		newPos int
		want   []uint
	}{
		{"move to front", 3, 0, []uint{3, 1, 2, 4}},
		{"move to back", 1, 3, []uint{2, 3, 4, 1}},
		{"move to middle", 4, 1, []uint{1, 4, 2, 3}},
		{"same position", 2, 1, []uint{1, 2, 3, 4}},
		{"negative clamps to front", 4, -2, []uint{4, 1, 2, 3}},
		{"overshoot clamps to back", 1, 99, []uint{2, 3, 4, 1}},
		{"unknown id keeps order", 42, 0, []uint{1, 2, 3, 4}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := reorderPositions(append([]uint(nil), base...), tc.id, tc.newPos)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}
