package schedule

import (
	"context"
	"reflect"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	slotuc "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

// Regenerator rebuilds a schedule's slots; satisfied by slot.GenerateSlots.
type Regenerator interface {
	Execute(ctx context.Context, in slotuc.GenerateInput) (*slotuc.GenerateResult, error)
}

// UpdateInput is a patch: nil fields are left untouched.
type UpdateInput struct {
	BusinessID uint
	ScheduleID uint
	ActorID    uint

	Name *string
	Kind *string

	WeeklyPattern *models.WeeklyPattern
	Exceptions    *[]models.ScheduleException

	SlotDurationMinutes *int
	BufferMinutes       *int
	Timezone            *string
	SlotCapacity        *int

	EffectiveFrom *clock.Date
	EffectiveTo   *clock.Date
	// ClearEffectiveWindow drops both bounds before EffectiveFrom/To apply.
	ClearEffectiveWindow bool

	IsDefault *bool
	Priority  *int
	IsActive  *bool
}

type UpdateResult struct {
	Schedule          *models.ScheduleDefinition `json:"schedule"`
	Regeneration      *slotuc.GenerateResult     `json:"regeneration,omitempty"`
	RegenerationError string                     `json:"regeneration_error,omitempty"`
}

type UpdateSchedule struct {
	store          domain.TxRunner
	regenerator    Regenerator
	audit          *audit.Dispatcher
	log            *zap.Logger
	autoRegenerate bool
}

func NewUpdateSchedule(
	store domain.TxRunner,
	regenerator Regenerator,
	audit *audit.Dispatcher,
	log *zap.Logger,
	autoRegenerate bool,
) *UpdateSchedule {
	return &UpdateSchedule{
		store:          store,
		regenerator:    regenerator,
		audit:          audit,
		log:            log,
		autoRegenerate: autoRegenerate,
	}
}

func (uc *UpdateSchedule) Execute(
	ctx context.Context,
	in UpdateInput,
) (*UpdateResult, error) {

	var (
		def     *models.ScheduleDefinition
		reshape bool
	)

	err := uc.store.Transaction(ctx, func(schedules domain.Repository, _ slot.Repository) error {
		current, err := schedules.GetScheduleForUpdate(ctx, in.BusinessID, in.ScheduleID)
		if err != nil {
			return err
		}

		reshape = applyPatch(current, in)
		if err := domain.Validate(current); err != nil {
			return err
		}

		if current.IsDefault && current.IsActive {
			if _, err := schedules.ClearOtherDefaults(ctx, current.BusinessID, current.SpecialistID, current.ID); err != nil {
				return err
			}
		}
		if err := schedules.UpdateSchedule(ctx, current); err != nil {
			return err
		}

		def = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		ActorID:    &in.ActorID,
		Action:     "schedule_updated",
		Entity:     "schedule",
		EntityID:   &def.ID,
		Metadata: map[string]any{
			"pattern_changed": reshape,
		},
	})

	result := &UpdateResult{Schedule: def}

	if !reshape || !uc.autoRegenerate || !def.IsActive || uc.regenerator == nil {
		return result, nil
	}

	// the schedule update stands even if regeneration fails
	gen, err := uc.regenerator.Execute(ctx, slotuc.GenerateInput{
		BusinessID:        def.BusinessID,
		ScheduleID:        def.ID,
		ActorID:           in.ActorID,
		GenerateBreaks:    true,
		OverwriteExisting: true,
	})
	if err != nil {
		uc.log.Warn("regeneration after schedule update failed",
			zap.Uint("schedule_id", def.ID),
			zap.Error(err),
		)
		result.RegenerationError = err.Error()
		return result, nil
	}
	result.Regeneration = gen

	return result, nil
}

// applyPatch mutates def and reports whether the slot layout may change.
func applyPatch(def *models.ScheduleDefinition, in UpdateInput) bool {
	reshape := false

	if in.Name != nil {
		def.Name = *in.Name
	}
	if in.Kind != nil {
		def.Kind = *in.Kind
	}
	if in.WeeklyPattern != nil {
		if !reflect.DeepEqual(def.Pattern(), *in.WeeklyPattern) {
			reshape = true
		}
		def.WeeklyPattern = datatypes.NewJSONType(*in.WeeklyPattern)
	}
	if in.Exceptions != nil {
		ex := nonNilExceptions(*in.Exceptions)
		if !reflect.DeepEqual(nonNilExceptions(def.ExceptionList()), ex) {
			reshape = true
		}
		def.Exceptions = datatypes.NewJSONType(ex)
	}
	if in.SlotDurationMinutes != nil && *in.SlotDurationMinutes != def.SlotDurationMinutes {
		def.SlotDurationMinutes = *in.SlotDurationMinutes
		reshape = true
	}
	if in.BufferMinutes != nil && *in.BufferMinutes != def.BufferMinutes {
		def.BufferMinutes = *in.BufferMinutes
		reshape = true
	}
	if in.SlotCapacity != nil && *in.SlotCapacity != def.SlotCapacity {
		def.SlotCapacity = *in.SlotCapacity
		reshape = true
	}
	if in.Timezone != nil && *in.Timezone != def.Timezone {
		def.Timezone = *in.Timezone
		reshape = true
	}

	oldFrom, oldTo := def.EffectiveWindow()
	if in.ClearEffectiveWindow {
		def.EffectiveFrom, def.EffectiveTo = nil, nil
	}
	if in.EffectiveFrom != nil {
		def.EffectiveFrom = models.DateValue(*in.EffectiveFrom)
	}
	if in.EffectiveTo != nil {
		def.EffectiveTo = models.DateValue(*in.EffectiveTo)
	}
	newFrom, newTo := def.EffectiveWindow()
	if !sameDate(oldFrom, newFrom) || !sameDate(oldTo, newTo) {
		reshape = true
	}

	if in.IsDefault != nil {
		def.IsDefault = *in.IsDefault
	}
	if in.Priority != nil {
		def.Priority = *in.Priority
	}
	if in.IsActive != nil {
		def.IsActive = *in.IsActive
	}

	return reshape
}

func sameDate(a, b *clock.Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
