package clock

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", NewTimeOfDay(9, 0), false},
		{"23:59", NewTimeOfDay(23, 59), false},
		{"24:00", EndOfDay, false},
		{" 07:30 ", NewTimeOfDay(7, 30), false},
		{"9h", 0, true},
		{"25:00", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWeekdayJSONMapKey(t *testing.T) {
	in := map[Weekday]int{Monday: 1, Sunday: 7}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"monday":1,"sunday":7}` {
		t.Fatalf("unexpected json %s", b)
	}

	var out map[Weekday]int
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[Monday] != 1 || out[Sunday] != 7 {
		t.Fatalf("unexpected map %v", out)
	}

	if err := json.Unmarshal([]byte(`{"funday":1}`), &out); err == nil {
		t.Fatalf("expected error for unknown weekday")
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 28)

	if got := d.AddDays(1).String(); got != "2024-02-29" {
		t.Errorf("leap day: got %s", got)
	}
	if got := d.AddDays(2).String(); got != "2024-03-01" {
		t.Errorf("month rollover: got %s", got)
	}
	if d.Weekday() != Wednesday {
		t.Errorf("expected wednesday, got %s", d.Weekday())
	}
	if n := d.DaysUntil(NewDate(2024, time.March, 6)); n != 7 {
		t.Errorf("DaysUntil = %d, want 7", n)
	}
	if !d.Before(d.AddDays(1)) || d.After(d) {
		t.Errorf("ordering broken")
	}
}

func TestDateAtKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	before := NewDate(2025, time.March, 8).At(NewTimeOfDay(9, 0), loc)
	after := NewDate(2025, time.March, 10).At(NewTimeOfDay(9, 0), loc)

	if before.Hour() != 9 || after.Hour() != 9 {
		t.Fatalf("wall clock moved: %v / %v", before, after)
	}
	if before.UTC().Hour() == after.UTC().Hour() {
		t.Fatalf("expected UTC offset to change across DST: %v / %v", before.UTC(), after.UTC())
	}
}

func TestDateAtEndOfDay(t *testing.T) {
	got := NewDate(2025, time.January, 31).At(EndOfDay, time.UTC)
	want := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
