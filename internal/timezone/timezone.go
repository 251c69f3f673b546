package timezone

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
)

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to the default zone when it is empty
// or unknown.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// TodayIn returns the current calendar day as seen in tz.
func TodayIn(tz string) clock.Date {
	return clock.DateOf(NowIn(tz))
}

// DayBounds returns [midnight of from, midnight after to) in loc.
func DayBounds(from, to clock.Date, loc *time.Location) (time.Time, time.Time) {
	return from.In(loc), to.AddDays(1).In(loc)
}
