package schedule

import (
	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ===============================
// Precedence
// ===============================

func kindRank(kind string) int {
	switch kind {
	case models.ScheduleKindTemporaryOverride:
		return 3
	case models.ScheduleKindSpecialistCustom:
		return 2
	case models.ScheduleKindBusinessDefault:
		return 1
	}
	return 0
}

// Outranks reports whether a wins a date over b: higher priority, then kind,
// then the default flag, then the older schedule.
func Outranks(a, b *models.ScheduleDefinition) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if ra, rb := kindRank(a.Kind), kindRank(b.Kind); ra != rb {
		return ra > rb
	}
	if a.IsDefault != b.IsDefault {
		return a.IsDefault
	}
	return a.ID < b.ID
}

// OwnerOf returns the active schedule that governs d among candidates of one
// scope, or nil when none covers it.
func OwnerOf(candidates []models.ScheduleDefinition, d clock.Date) *models.ScheduleDefinition {
	var best *models.ScheduleDefinition
	for i := range candidates {
		s := &candidates[i]
		if !s.IsActive || !s.Covers(d) {
			continue
		}
		if best == nil || Outranks(s, best) {
			best = s
		}
	}
	return best
}

// OwnedDates returns the dates in [from, to] that def governs.
func OwnedDates(def *models.ScheduleDefinition, scope []models.ScheduleDefinition, from, to clock.Date) map[clock.Date]bool {
	all := make([]models.ScheduleDefinition, 0, len(scope)+1)
	all = append(all, *def)
	for _, s := range scope {
		if s.ID != def.ID {
			all = append(all, s)
		}
	}

	out := make(map[clock.Date]bool)
	for d := from; !d.After(to); d = d.AddDays(1) {
		if owner := OwnerOf(all, d); owner != nil && owner.ID == def.ID {
			out[d] = true
		}
	}
	return out
}
