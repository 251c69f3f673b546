package schedule

import (
	"fmt"
	"sort"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

const maxSlotDuration = 24 * 60

const maxSlotCapacity = 100

// ===============================
// Kind
// ===============================

func ValidKind(kind string) bool {
	switch kind {
	case models.ScheduleKindBusinessDefault,
		models.ScheduleKindSpecialistCustom,
		models.ScheduleKindTemporaryOverride:
		return true
	}
	return false
}

// ===============================
// Definition
// ===============================

// Validate checks a definition before it is stored or expanded.
func Validate(def *models.ScheduleDefinition) error {
	if !ValidKind(def.Kind) {
		return httperr.Validation("invalid_kind", def.Kind)
	}
	if def.SlotDurationMinutes <= 0 || def.SlotDurationMinutes > maxSlotDuration {
		return httperr.Validation("invalid_slot_duration", fmt.Sprintf("%d", def.SlotDurationMinutes))
	}
	if def.BufferMinutes < 0 || def.BufferMinutes > maxSlotDuration {
		return httperr.Validation("invalid_buffer", fmt.Sprintf("%d", def.BufferMinutes))
	}
	if def.SlotCapacity < 0 || def.SlotCapacity > maxSlotCapacity {
		return httperr.Validation("invalid_slot_capacity", fmt.Sprintf("%d", def.SlotCapacity))
	}
	if !timezone.IsValid(def.Timezone) {
		return httperr.Validation("invalid_timezone", def.Timezone)
	}

	from, to := def.EffectiveWindow()
	if from != nil && to != nil && to.Before(*from) {
		return httperr.Validation("invalid_effective_range", from.String()+" > "+to.String())
	}

	pattern := def.Pattern()
	for _, wd := range clock.AllWeekdays() {
		plan, ok := pattern[wd]
		if !ok {
			return httperr.Validation("missing_weekday", wd.String())
		}
		if err := validateShifts(plan.Shifts, def.SlotDurationMinutes, def.BufferMinutes); err != nil {
			return fmt.Errorf("%s: %w", wd, err)
		}
	}
	for wd := range pattern {
		if !wd.Valid() {
			return httperr.Validation("missing_weekday", fmt.Sprintf("%d", int(wd)))
		}
	}

	seen := make(map[clock.Date]struct{})
	for _, ex := range def.ExceptionList() {
		if ex.Date.IsZero() {
			return httperr.Validation("invalid_exception", "date is required")
		}
		if _, dup := seen[ex.Date]; dup {
			return httperr.Validation("duplicate_exception", ex.Date.String())
		}
		seen[ex.Date] = struct{}{}

		if ex.Closed {
			if len(ex.Shifts) > 0 {
				return httperr.Validation("invalid_exception", ex.Date.String()+": closed day with shifts")
			}
			continue
		}
		if len(ex.Shifts) == 0 {
			return httperr.Validation("invalid_exception", ex.Date.String()+": no shifts")
		}
		if err := validateShifts(ex.Shifts, def.SlotDurationMinutes, def.BufferMinutes); err != nil {
			return fmt.Errorf("%s: %w", ex.Date, err)
		}
	}

	return nil
}

func validateShifts(shifts []models.Shift, duration, buffer int) error {
	type span struct{ start, end clock.TimeOfDay }
	spans := make([]span, 0, len(shifts))

	for _, s := range shifts {
		if !s.Start.Valid() || !s.End.Valid() || s.Start >= s.End {
			return httperr.Validation("invalid_shift", s.Start.String()+"-"+s.End.String())
		}

		if (s.BreakStart == nil) != (s.BreakEnd == nil) {
			return httperr.Validation("invalid_break", "break needs both start and end")
		}
		if s.HasBreak() {
			bs, be := *s.BreakStart, *s.BreakEnd
			if bs >= be || bs < s.Start || be > s.End {
				return httperr.Validation("invalid_break", bs.String()+"-"+be.String())
			}
		}

		spans = append(spans, span{s.Start, footprintEnd(s, duration, buffer)})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return httperr.Validation(
				"overlapping_shifts",
				spans[i-1].start.String()+" / "+spans[i].start.String(),
			)
		}
	}
	return nil
}

// footprintEnd is where the next shift may start: the shift end, or the
// buffer after the last slot when that runs past it.
func footprintEnd(s models.Shift, duration, buffer int) clock.TimeOfDay {
	end := s.End
	last := clock.TimeOfDay(-1)
	for t := s.Start; t.AddMinutes(duration) <= s.End; t = t.AddMinutes(duration + buffer) {
		last = t.AddMinutes(duration)
	}
	if last >= 0 && last.AddMinutes(buffer) > end {
		end = last.AddMinutes(buffer)
	}
	return end
}
