package schedule

import (
	"testing"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func TestOwnerOf(t *testing.T) {
	base := *newDef(30, 0, shift("09:00", "12:00"))
	base.ID, base.IsDefault = 1, true

	custom := base
	custom.ID, custom.IsDefault, custom.Kind = 2, false, models.ScheduleKindSpecialistCustom

	override := base
	override.ID, override.IsDefault, override.Kind = 3, false, models.ScheduleKindTemporaryOverride
	override.EffectiveFrom = models.DateValue(monday.AddDays(1))
	override.EffectiveTo = models.DateValue(monday.AddDays(1))

	all := []models.ScheduleDefinition{base, custom, override}

	if got := OwnerOf(all, monday); got == nil || got.ID != 2 {
		t.Fatalf("expected specialist custom to own monday, got %+v", got)
	}
	if got := OwnerOf(all, monday.AddDays(1)); got == nil || got.ID != 3 {
		t.Fatalf("expected override to own tuesday, got %+v", got)
	}

	all[0].Priority = 10
	if got := OwnerOf(all, monday.AddDays(1)); got.ID != 1 {
		t.Fatalf("priority should win over kind, got %d", got.ID)
	}

	all[0].IsActive = false
	if got := OwnerOf(all, monday.AddDays(1)); got.ID != 3 {
		t.Fatalf("inactive schedule should not own dates, got %d", got.ID)
	}
}

func TestOwnedDates(t *testing.T) {
	base := *newDef(30, 0, shift("09:00", "12:00"))
	base.ID = 1

	override := base
	override.ID, override.Kind = 2, models.ScheduleKindTemporaryOverride
	override.EffectiveFrom = models.DateValue(monday.AddDays(2))
	override.EffectiveTo = models.DateValue(monday.AddDays(3))

	owned := OwnedDates(&base, []models.ScheduleDefinition{base, override}, monday, monday.AddDays(6))
	if len(owned) != 5 {
		t.Fatalf("expected 5 owned dates, got %d", len(owned))
	}
	if owned[monday.AddDays(2)] || owned[monday.AddDays(3)] {
		t.Fatalf("dates held by the override were claimed")
	}
}
