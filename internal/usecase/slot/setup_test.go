package slot

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/testutil"
)

const business = uint(1)

var (
	monday  = clock.NewDate(2025, time.March, 3)
	tuesday = monday.AddDays(1)
)

var testLimits = config.SchedulingConfig{
	DefaultHorizonDays:   30,
	MaxHorizonDays:       366,
	MaxQueryDays:         62,
	NextAvailableMaxDays: 30,
	RegenerationTimeout:  10 * time.Second,
	BulkConcurrency:      2,
}

func uintPtr(v uint) *uint { return &v }

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(testutil.NewDB(t))
}

func newGenerate(store *repository.Store) *GenerateSlots {
	return NewGenerateSlots(store, nil, zap.NewNop(), testLimits)
}

func morning(withBreak bool) models.WeeklyPattern {
	sh := models.Shift{Start: clock.MustTimeOfDay("09:00"), End: clock.MustTimeOfDay("12:00")}
	if withBreak {
		bs, be := clock.MustTimeOfDay("10:00"), clock.MustTimeOfDay("10:30")
		sh.BreakStart, sh.BreakEnd = &bs, &be
	}
	p := make(models.WeeklyPattern)
	for _, wd := range clock.AllWeekdays() {
		p[wd] = models.DayPlan{Enabled: true, Shifts: []models.Shift{sh}}
	}
	return p
}

type scheduleOpt func(*models.ScheduleDefinition)

func withSpecialist(id uint) scheduleOpt {
	return func(s *models.ScheduleDefinition) {
		s.SpecialistID = uintPtr(id)
		s.Kind = models.ScheduleKindSpecialistCustom
	}
}

func withCapacity(seats int) scheduleOpt {
	return func(s *models.ScheduleDefinition) { s.SlotCapacity = seats }
}

func seedSchedule(t *testing.T, store *repository.Store, pattern models.WeeklyPattern, opts ...scheduleOpt) *models.ScheduleDefinition {
	t.Helper()

	def := &models.ScheduleDefinition{
		BusinessID:          business,
		Kind:                models.ScheduleKindBusinessDefault,
		WeeklyPattern:       datatypes.NewJSONType(pattern),
		Exceptions:          datatypes.NewJSONType([]models.ScheduleException{}),
		SlotDurationMinutes: 30,
		Timezone:            "UTC",
		IsActive:            true,
	}
	for _, o := range opts {
		o(def)
	}
	if err := store.Schedules.CreateSchedule(context.Background(), def); err != nil {
		t.Fatalf("seed schedule: %v", err)
	}
	return def
}

func listAll(t *testing.T, store *repository.Store) []models.TimeSlot {
	t.Helper()
	out, err := store.Slots.ListSlots(context.Background(), domain.Filter{BusinessID: business})
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	return out
}

func generate(t *testing.T, store *repository.Store, def *models.ScheduleDefinition, from, to clock.Date) *GenerateResult {
	t.Helper()
	res, err := newGenerate(store).Execute(context.Background(), GenerateInput{
		BusinessID:        business,
		ScheduleID:        def.ID,
		From:              from,
		To:                to,
		GenerateBreaks:    true,
		OverwriteExisting: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return res
}
