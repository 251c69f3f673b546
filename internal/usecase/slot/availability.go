package slot

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type AvailabilityInput struct {
	BusinessID   uint
	SpecialistID *uint
	From         clock.Date
	To           clock.Date
	MinDuration  int
	Statuses     []domain.Status
	Period       validators.Period
}

type NextAvailableInput struct {
	BusinessID   uint
	SpecialistID *uint
	MinDuration  int
	From         time.Time
	MaxDays      int
}

type BusinessDayInput struct {
	BusinessID  uint
	Date        clock.Date
	MinDuration int
	Period      validators.Period
}

// ======================================================
// USE CASE
// ======================================================

type Availability struct {
	repo   domain.Repository
	limits config.SchedulingConfig
	now    func() time.Time
}

func NewAvailability(repo domain.Repository, limits config.SchedulingConfig) *Availability {
	return &Availability{repo: repo, limits: limits, now: time.Now}
}

// Get returns the range grouped by date, then by specialist.
func (uc *Availability) Get(
	ctx context.Context,
	in AvailabilityInput,
) ([]dto.DayAvailability, error) {

	if err := validators.CheckRange(in.From, in.To, uc.limits.MaxQueryDays); err != nil {
		return nil, err
	}
	if in.MinDuration < 0 {
		return nil, httperr.Validation("invalid_min_duration", "")
	}
	for _, st := range in.Statuses {
		if !st.Valid() {
			return nil, httperr.Validation("invalid_status", string(st))
		}
	}

	slots, err := uc.repo.ListSlots(ctx, domain.Filter{
		BusinessID:   in.BusinessID,
		SpecialistID: in.SpecialistID,
		FromDate:     in.From.String(),
		ToDate:       in.To.String(),
		Statuses:     in.Statuses,
		MinDuration:  in.MinDuration,
	})
	if err != nil {
		return nil, err
	}

	days := dto.GroupAvailability(slots)
	return dto.FilterPeriod(days, in.Period), nil
}

// NextAvailable returns nil, without error, when nothing is free inside the
// horizon.
func (uc *Availability) NextAvailable(
	ctx context.Context,
	in NextAvailableInput,
) (*models.TimeSlot, error) {

	if in.MinDuration < 0 {
		return nil, httperr.Validation("invalid_min_duration", "")
	}

	from := in.From
	if from.IsZero() {
		from = uc.now()
	}

	maxDays := in.MaxDays
	if maxDays <= 0 {
		maxDays = uc.limits.NextAvailableMaxDays
	}
	if maxDays > uc.limits.MaxHorizonDays {
		return nil, httperr.Validation("max_days_too_large", "")
	}

	return uc.repo.FirstSlot(ctx, domain.Filter{
		BusinessID:   in.BusinessID,
		SpecialistID: in.SpecialistID,
		StartFrom:    from,
		StartBefore:  from.Add(time.Duration(maxDays) * 24 * time.Hour),
		Statuses:     []domain.Status{domain.StatusAvailable},
		MinDuration:  in.MinDuration,
	})
}

// BusinessDay lists every specialist's available slots on one date.
func (uc *Availability) BusinessDay(
	ctx context.Context,
	in BusinessDayInput,
) ([]dto.SpecialistAvailability, error) {

	if in.Date.IsZero() {
		return nil, httperr.Validation("invalid_date", "")
	}

	days, err := uc.Get(ctx, AvailabilityInput{
		BusinessID:  in.BusinessID,
		From:        in.Date,
		To:          in.Date,
		MinDuration: in.MinDuration,
		Statuses:    []domain.Status{domain.StatusAvailable},
		Period:      in.Period,
	})
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return []dto.SpecialistAvailability{}, nil
	}
	return days[0].Specialists, nil
}
