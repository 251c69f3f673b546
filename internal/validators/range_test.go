package validators

import (
	"testing"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

func TestDateRange(t *testing.T) {
	cases := []struct {
		from, to string
		max      int
		code     string
	}{
		{"2025-03-01", "2025-03-31", 31, ""},
		{"2025-03-01", "2025-04-01", 31, "date_range_too_large"},
		{"2025-03-10", "2025-03-01", 31, "invalid_date_range"},
		{"03/01/2025", "2025-03-01", 31, "invalid_date"},
		{"2025-03-01", "2025-03-01", 0, ""},
	}

	for _, tc := range cases {
		_, _, err := DateRange(tc.from, tc.to, tc.max)
		if tc.code == "" {
			if err != nil {
				t.Errorf("%s..%s: unexpected %v", tc.from, tc.to, err)
			}
			continue
		}
		if !httperr.IsBusiness(err, tc.code) {
			t.Errorf("%s..%s: expected %s, got %v", tc.from, tc.to, tc.code, err)
		}
	}
}

func TestPeriodContains(t *testing.T) {
	cases := []struct {
		period Period
		at     string
		want   bool
	}{
		{PeriodMorning, "00:00", true},
		{PeriodMorning, "11:59", true},
		{PeriodMorning, "12:00", false},
		{PeriodAfternoon, "12:00", true},
		{PeriodAfternoon, "18:00", false},
		{PeriodEvening, "18:00", true},
		{PeriodAny, "03:00", true},
	}
	for _, tc := range cases {
		if got := tc.period.Contains(clock.MustTimeOfDay(tc.at)); got != tc.want {
			t.Errorf("%q contains %s: got %v", tc.period, tc.at, got)
		}
	}

	if _, err := ParsePeriod("night"); !httperr.IsBusiness(err, "invalid_period") {
		t.Fatalf("expected invalid_period, got %v", err)
	}
}
