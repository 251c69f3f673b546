package validators

import (
	"strconv"
	"strings"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// DateRange parses an inclusive YYYY-MM-DD range and bounds its length.
func DateRange(from, to string, maxDays int) (clock.Date, clock.Date, error) {
	start, err := clock.ParseDate(from)
	if err != nil {
		return clock.Date{}, clock.Date{}, httperr.Validation("invalid_date", from)
	}
	end, err := clock.ParseDate(to)
	if err != nil {
		return clock.Date{}, clock.Date{}, httperr.Validation("invalid_date", to)
	}
	return start, end, CheckRange(start, end, maxDays)
}

func CheckRange(from, to clock.Date, maxDays int) error {
	if to.Before(from) {
		return httperr.Validation("invalid_date_range", from.String()+" > "+to.String())
	}
	if maxDays > 0 && from.DaysUntil(to)+1 > maxDays {
		return httperr.Validation("date_range_too_large", "max "+strconv.Itoa(maxDays)+" days")
	}
	return nil
}

// ===============================
// Period of day
// ===============================

type Period string

const (
	PeriodAny       Period = ""
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodAny, PeriodMorning, PeriodAfternoon, PeriodEvening:
		return p, nil
	}
	return "", httperr.Validation("invalid_period", s)
}

// Contains reports whether a slot starting at t falls in the period:
// morning [00:00,12:00), afternoon [12:00,18:00), evening [18:00,24:00).
func (p Period) Contains(t clock.TimeOfDay) bool {
	switch p {
	case PeriodMorning:
		return t < clock.NewTimeOfDay(12, 0)
	case PeriodAfternoon:
		return t >= clock.NewTimeOfDay(12, 0) && t < clock.NewTimeOfDay(18, 0)
	case PeriodEvening:
		return t >= clock.NewTimeOfDay(18, 0)
	}
	return true
}
