package timezone

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
)

func TestLocationFallback(t *testing.T) {
	if got := Location("Not/AZone").String(); got != DefaultTimezone && got != "UTC" {
		t.Fatalf("unexpected fallback %s", got)
	}
	if IsValid("") {
		t.Fatalf("empty zone must be invalid")
	}
}

func TestDayBounds(t *testing.T) {
	from := clock.NewDate(2025, time.June, 2)
	to := clock.NewDate(2025, time.June, 3)

	start, end := DayBounds(from, to, time.UTC)
	if !start.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start %v", start)
	}
	if !end.Equal(time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end %v", end)
	}
}
