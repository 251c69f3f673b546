package slot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type GenerateInput struct {
	BusinessID uint
	ScheduleID uint
	ActorID    uint

	// zero values mean today .. today+default horizon in the schedule's zone
	From clock.Date
	To   clock.Date

	GenerateBreaks    bool
	OverwriteExisting bool
}

type GenerateResult struct {
	ScheduleID uint              `json:"schedule_id"`
	From       clock.Date        `json:"from"`
	To         clock.Date        `json:"to"`
	Created    int               `json:"created"`
	Deleted    int               `json:"deleted"`
	Skipped    int               `json:"skipped"`
	Preserved  []models.TimeSlot `json:"preserved"`
}

// ======================================================
// USE CASE
// ======================================================

// GenerateSlots replaces a schedule's slots over a date range in one
// transaction.
type GenerateSlots struct {
	store  schedule.TxRunner
	audit  *audit.Dispatcher
	log    *zap.Logger
	limits config.SchedulingConfig
	now    func() time.Time
}

func NewGenerateSlots(
	store schedule.TxRunner,
	audit *audit.Dispatcher,
	log *zap.Logger,
	limits config.SchedulingConfig,
) *GenerateSlots {
	return &GenerateSlots{
		store:  store,
		audit:  audit,
		log:    log,
		limits: limits,
		now:    time.Now,
	}
}

func (uc *GenerateSlots) Execute(
	ctx context.Context,
	in GenerateInput,
) (*GenerateResult, error) {

	if uc.limits.RegenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.limits.RegenerationTimeout)
		defer cancel()
	}

	var result *GenerateResult
	err := uc.store.Transaction(ctx, func(schedules schedule.Repository, slots domain.Repository) error {
		r, err := uc.regenerate(ctx, schedules, slots, in)
		result = r
		return err
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			uc.log.Warn("slot generation timed out",
				zap.Uint("schedule_id", in.ScheduleID),
				zap.Duration("timeout", uc.limits.RegenerationTimeout),
			)
		}
		if _, ok := httperr.KindOf(err); !ok {
			return nil, fmt.Errorf("generate slots for schedule %d: %w", in.ScheduleID, err)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		ActorID:    &in.ActorID,
		Action:     "slots_generated",
		Entity:     "schedule",
		EntityID:   &in.ScheduleID,
		Metadata: map[string]any{
			"from":      result.From.String(),
			"to":        result.To.String(),
			"created":   result.Created,
			"deleted":   result.Deleted,
			"skipped":   result.Skipped,
			"preserved": len(result.Preserved),
			"overwrite": in.OverwriteExisting,
		},
	})

	uc.log.Info("slots generated",
		zap.Uint("schedule_id", in.ScheduleID),
		zap.Int("created", result.Created),
		zap.Int("deleted", result.Deleted),
		zap.Int("preserved", len(result.Preserved)),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

func (uc *GenerateSlots) regenerate(
	ctx context.Context,
	schedules schedule.Repository,
	slots domain.Repository,
	in GenerateInput,
) (*GenerateResult, error) {

	// --------------------------------------------------
	// 1. Schedule (row locked until commit)
	// --------------------------------------------------
	def, err := schedules.GetScheduleForUpdate(ctx, in.BusinessID, in.ScheduleID)
	if err != nil {
		return nil, err
	}
	if !def.IsActive {
		return nil, httperr.InvalidTransition("schedule_inactive", "inactive schedules do not generate slots")
	}

	gen, err := schedule.NewGenerator(def)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Range
	// --------------------------------------------------
	from, to := in.From, in.To
	if from.IsZero() {
		from = clock.DateOf(uc.now().In(gen.Location()))
	}
	if to.IsZero() {
		to = from.AddDays(uc.limits.DefaultHorizonDays - 1)
	}
	if err := validators.CheckRange(from, to, uc.limits.MaxHorizonDays); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Default flag wins over any other default of the scope
	// --------------------------------------------------
	if def.IsDefault {
		if _, err := schedules.ClearOtherDefaults(ctx, def.BusinessID, def.SpecialistID, def.ID); err != nil {
			return nil, err
		}
	}

	start, end := timezone.DayBounds(from, to, gen.Location())

	// --------------------------------------------------
	// 4. Existing slots of this schedule
	// --------------------------------------------------
	existing, err := slots.ListScheduleSlots(ctx, def.ID, start, end)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{ScheduleID: def.ID, From: from, To: to, Preserved: []models.TimeSlot{}}
	removed := make(map[uint]bool)

	if !in.OverwriteExisting {
		for _, s := range existing {
			if domain.Occupied(domain.Status(s.Status)) {
				return nil, httperr.Conflict(
					"slots_already_exist",
					fmt.Sprintf("slot %d already exists on %s %s", s.ID, s.SlotDate, s.StartTime),
				)
			}
		}
	} else {
		var ids []uint
		for _, s := range existing {
			if s.IsBound() {
				result.Preserved = append(result.Preserved, s)
				continue
			}
			ids = append(ids, s.ID)
			removed[s.ID] = true
		}
		n, err := slots.DeleteSlots(ctx, ids)
		if err != nil {
			return nil, err
		}
		result.Deleted = int(n)
	}

	// --------------------------------------------------
	// 5. Everything else the owner keeps in the range
	// --------------------------------------------------
	owned, err := slots.ListOwnerSlots(ctx, domain.Owner{BusinessID: def.BusinessID, SpecialistID: def.SpecialistID}, start, end)
	if err != nil {
		return nil, err
	}
	retained := owned[:0]
	for _, s := range owned {
		if !removed[s.ID] {
			retained = append(retained, s)
		}
	}
	sort.Slice(retained, func(i, j int) bool { return retained[i].StartAt.Before(retained[j].StartAt) })

	scope, err := schedules.ListScope(ctx, def.BusinessID, def.SpecialistID)
	if err != nil {
		return nil, err
	}
	ownedDates := schedule.OwnedDates(def, scope, from, to)

	// --------------------------------------------------
	// 6. Candidates
	// --------------------------------------------------
	var fresh []models.TimeSlot
	idx := 0

	for c := range gen.Slots(from, to) {
		if !ownedDates[c.Date] {
			continue
		}
		if c.Status == domain.StatusBreak && !in.GenerateBreaks {
			continue
		}

		// retained slots that ended before this candidate can be dropped
		for idx < len(retained) && !retained[idx].EndAt.After(c.StartAt) {
			idx++
		}
		if collides(retained[idx:], c.StartAt, c.EndAt) {
			result.Skipped++
			continue
		}

		fresh = append(fresh, c.ToModel(def))
	}

	if err := slots.CreateSlots(ctx, fresh); err != nil {
		return nil, err
	}
	result.Created = len(fresh)

	return result, nil
}

// collides scans retained slots (sorted by start) that begin before end.
func collides(retained []models.TimeSlot, start, end time.Time) bool {
	for i := range retained {
		if !retained[i].StartAt.Before(end) {
			return false
		}
		if retained[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}
