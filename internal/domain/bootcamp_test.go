package domain

import (
	"testing"
	"time"
)

func d(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestEndDate(t *testing.T) {
	b := Bootcamp{LaunchDate: d(2026, 9, 1), Duration: 30}
	if got := b.EndDate(); !got.Equal(d(2026, 10, 1)) {
		t.Fatalf("expected 2026-10-01, got %v", got)
	}
}

func TestOverlaps(t *testing.T) {
	base := Bootcamp{LaunchDate: d(2026, 9, 1), Duration: 30} // ends 2026-10-01

	cases := []struct {
		name  string
		other Bootcamp
		want  bool
	}{
		{"fully before", Bootcamp{LaunchDate: d(2026, 7, 1), Duration: 10}, false},
		{"fully after", Bootcamp{LaunchDate: d(2026, 11, 1), Duration: 10}, false},
		{"contained", Bootcamp{LaunchDate: d(2026, 9, 10), Duration: 5}, true},
		{"containing", Bootcamp{LaunchDate: d(2026, 8, 1), Duration: 90}, true},
		{"starts on end date", Bootcamp{LaunchDate: d(2026, 10, 1), Duration: 10}, true},
		{"ends on launch date", Bootcamp{LaunchDate: d(2026, 8, 2), Duration: 30}, true},
		{"ends day before launch", Bootcamp{LaunchDate: d(2026, 8, 1), Duration: 30}, false},
		{"disjoint by one day", Bootcamp{LaunchDate: d(2026, 10, 2), Duration: 10}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			// Overlap is symmetric.
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Fatalf("reverse Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}
