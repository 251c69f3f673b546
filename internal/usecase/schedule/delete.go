package schedule

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

type DeleteResult struct {
	ScheduleID  uint `json:"schedule_id"`
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

type DeleteSchedule struct {
	store domain.TxRunner
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewDeleteSchedule(
	store domain.TxRunner,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *DeleteSchedule {
	return &DeleteSchedule{
		store: store,
		audit: audit,
		log:   log,
	}
}

// Execute removes a schedule, or only deactivates it while slots still
// reference it. The active default can never be removed.
func (uc *DeleteSchedule) Execute(
	ctx context.Context,
	businessID uint,
	actorID uint,
	scheduleID uint,
) (*DeleteResult, error) {

	result := &DeleteResult{ScheduleID: scheduleID}

	err := uc.store.Transaction(ctx, func(schedules domain.Repository, slots slot.Repository) error {
		def, err := schedules.GetScheduleForUpdate(ctx, businessID, scheduleID)
		if err != nil {
			return err
		}
		if def.IsDefault && def.IsActive {
			return httperr.Conflict("cannot_delete_default_schedule", "mark another schedule as default first")
		}

		n, err := slots.CountScheduleSlots(ctx, def.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			def.IsActive = false
			def.IsDefault = false
			result.Deactivated = true
			return schedules.UpdateSchedule(ctx, def)
		}

		result.Deleted = true
		return schedules.DeleteSchedule(ctx, businessID, def.ID)
	})
	if err != nil {
		return nil, err
	}

	action := "schedule_deleted"
	if result.Deactivated {
		action = "schedule_deactivated"
	}
	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		ActorID:    &actorID,
		Action:     action,
		Entity:     "schedule",
		EntityID:   &scheduleID,
	})

	uc.log.Info("schedule removed",
		zap.Uint("schedule_id", scheduleID),
		zap.Bool("deactivated", result.Deactivated),
	)

	return result, nil
}
