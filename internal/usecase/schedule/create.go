package schedule

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type CreateInput struct {
	BusinessID   uint
	ActorID      uint
	SpecialistID *uint
	LocationID   *uint

	Name string
	Kind string

	WeeklyPattern models.WeeklyPattern
	Exceptions    []models.ScheduleException

	SlotDurationMinutes int
	BufferMinutes       int
	Timezone            string
	SlotCapacity        int

	EffectiveFrom *clock.Date
	EffectiveTo   *clock.Date

	IsDefault bool
	Priority  int
}

type CreateSchedule struct {
	store domain.TxRunner
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewCreateSchedule(
	store domain.TxRunner,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *CreateSchedule {
	return &CreateSchedule{
		store: store,
		audit: audit,
		log:   log,
	}
}

func (uc *CreateSchedule) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.ScheduleDefinition, error) {

	def := &models.ScheduleDefinition{
		BusinessID:          in.BusinessID,
		SpecialistID:        in.SpecialistID,
		LocationID:          in.LocationID,
		Name:                in.Name,
		Kind:                in.Kind,
		WeeklyPattern:       datatypes.NewJSONType(in.WeeklyPattern),
		Exceptions:          datatypes.NewJSONType(nonNilExceptions(in.Exceptions)),
		SlotDurationMinutes: in.SlotDurationMinutes,
		BufferMinutes:       in.BufferMinutes,
		Timezone:            in.Timezone,
		SlotCapacity:        in.SlotCapacity,
		IsDefault:           in.IsDefault,
		Priority:            in.Priority,
		IsActive:            true,
		CreatedBy:           in.ActorID,
	}
	if in.EffectiveFrom != nil {
		def.EffectiveFrom = models.DateValue(*in.EffectiveFrom)
	}
	if in.EffectiveTo != nil {
		def.EffectiveTo = models.DateValue(*in.EffectiveTo)
	}

	if def.Kind == "" {
		def.Kind = defaultKind(def.SpecialistID)
	}
	if def.SlotCapacity == 0 {
		def.SlotCapacity = 1
	}
	if def.Timezone == "" {
		def.Timezone = timezone.DefaultTimezone
	}

	if err := domain.Validate(def); err != nil {
		return nil, err
	}

	err := uc.store.Transaction(ctx, func(schedules domain.Repository, _ slot.Repository) error {
		if def.IsDefault {
			if _, err := schedules.ClearOtherDefaults(ctx, def.BusinessID, def.SpecialistID, 0); err != nil {
				return err
			}
		}
		return schedules.CreateSchedule(ctx, def)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		ActorID:    &in.ActorID,
		Action:     "schedule_created",
		Entity:     "schedule",
		EntityID:   &def.ID,
		Metadata: map[string]any{
			"kind":       def.Kind,
			"is_default": def.IsDefault,
		},
	})

	uc.log.Info("schedule created",
		zap.Uint("business_id", def.BusinessID),
		zap.Uint("schedule_id", def.ID),
		zap.String("kind", def.Kind),
	)

	return def, nil
}

func defaultKind(specialistID *uint) string {
	if specialistID == nil {
		return models.ScheduleKindBusinessDefault
	}
	return models.ScheduleKindSpecialistCustom
}

func nonNilExceptions(ex []models.ScheduleException) []models.ScheduleException {
	if ex == nil {
		return []models.ScheduleException{}
	}
	return ex
}
