package schedule

import (
	"iter"
	"slices"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// Candidate is a slot the generator would create. StartAt/EndAt are UTC.
type Candidate struct {
	Date    clock.Date
	Start   clock.TimeOfDay
	End     clock.TimeOfDay
	StartAt time.Time
	EndAt   time.Time
	Status  slot.Status
	Type    slot.Type
}

func (c Candidate) DurationMinutes() int { return int(c.End - c.Start) }

// Generator expands one validated definition. It holds no state beyond the
// definition itself, so the sequences it returns can be iterated many times.
type Generator struct {
	def        *models.ScheduleDefinition
	loc        *time.Location
	pattern    models.WeeklyPattern
	exceptions map[clock.Date]models.ScheduleException
}

func NewGenerator(def *models.ScheduleDefinition) (*Generator, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}

	exceptions := make(map[clock.Date]models.ScheduleException)
	for _, ex := range def.ExceptionList() {
		exceptions[ex.Date] = ex
	}

	return &Generator{
		def:        def,
		loc:        timezone.Location(def.Timezone),
		pattern:    def.Pattern(),
		exceptions: exceptions,
	}, nil
}

func (g *Generator) Location() *time.Location { return g.loc }

// Plan resolves the shifts that apply on d. An exception replaces the
// weekly entry for its date.
func (g *Generator) Plan(d clock.Date) []models.Shift {
	if !g.def.Covers(d) {
		return nil
	}
	if ex, ok := g.exceptions[d]; ok {
		if ex.Closed {
			return nil
		}
		return ex.Shifts
	}
	plan := g.pattern[d.Weekday()]
	if !plan.Enabled {
		return nil
	}
	return plan.Shifts
}

// Day returns the candidates of a single date, ordered by start time.
func (g *Generator) Day(d clock.Date) []Candidate {
	shifts := g.Plan(d)
	if len(shifts) == 0 {
		return nil
	}

	duration := g.def.SlotDurationMinutes
	step := duration + g.def.BufferMinutes

	var out []Candidate
	for _, s := range shifts {
		for t := s.Start; t.AddMinutes(duration) <= s.End; t = t.AddMinutes(step) {
			end := t.AddMinutes(duration)

			c := Candidate{
				Date:    d,
				Start:   t,
				End:     end,
				StartAt: d.At(t, g.loc).UTC(),
				EndAt:   d.At(end, g.loc).UTC(),
				Status:  slot.StatusAvailable,
				Type:    slot.TypeRegular,
			}
			if s.HasBreak() && t < *s.BreakEnd && end > *s.BreakStart {
				c.Status = slot.StatusBreak
				c.Type = slot.TypeBreak
			}
			out = append(out, c)
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate) int { return int(a.Start - b.Start) })
	return out
}

// Slots lazily yields the candidates for [from, to], date by date.
func (g *Generator) Slots(from, to clock.Date) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for d := from; !d.After(to); d = d.AddDays(1) {
			for _, c := range g.Day(d) {
				if !yield(c) {
					return
				}
			}
		}
	}
}

// ToModel materializes a candidate for the given schedule.
func (c Candidate) ToModel(def *models.ScheduleDefinition) models.TimeSlot {
	id := def.ID
	return models.TimeSlot{
		BusinessID:      def.BusinessID,
		SpecialistID:    def.SpecialistID,
		ScheduleID:      &id,
		SlotDate:        c.Date.String(),
		StartTime:       c.Start.String(),
		EndTime:         c.End.String(),
		StartAt:         c.StartAt,
		EndAt:           c.EndAt,
		Status:          string(c.Status),
		Type:            string(c.Type),
		DurationMinutes: c.DurationMinutes(),
		MaxCapacity:     def.Capacity(),
	}
}
