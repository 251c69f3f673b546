package slot

import (
	"context"
	"sort"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// ======================================================
// OUTPUT
// ======================================================

type PeriodStats struct {
	Period    string     `json:"period"`
	StartDate clock.Date `json:"start_date"`
	EndDate   clock.Date `json:"end_date"`
	domain.Counts
	UtilizationRate  float64 `json:"utilization_rate"`
	AvailabilityRate float64 `json:"availability_rate"`
}

type SpecialistStats struct {
	SpecialistID *uint `json:"specialist_id"`
	domain.Counts
	UtilizationRate  float64 `json:"utilization_rate"`
	AvailabilityRate float64 `json:"availability_rate"`
	TotalHours       float64 `json:"total_hours"`
	BookedHours      float64 `json:"booked_hours"`
}

type Summary struct {
	domain.Counts
	UtilizationRate  float64 `json:"utilization_rate"`
	AvailabilityRate float64 `json:"availability_rate"`
	TotalHours       float64 `json:"total_hours"`
	BookedHours      float64 `json:"booked_hours"`
}

type StatsResult struct {
	GroupBy domain.GroupBy `json:"group_by"`
	From    clock.Date     `json:"from"`
	To      clock.Date     `json:"to"`
	Periods []PeriodStats  `json:"periods"`
	Summary Summary        `json:"summary"`
}

type Report struct {
	BusinessID   uint              `json:"business_id"`
	SpecialistID *uint             `json:"specialist_id,omitempty"`
	From         clock.Date        `json:"from"`
	To           clock.Date        `json:"to"`
	Summary      Summary           `json:"summary"`
	Specialists  []SpecialistStats `json:"specialists,omitempty"`
	Days         []PeriodStats     `json:"days"`
}

type UtilizationInput struct {
	BusinessID   uint
	SpecialistID *uint
	From         clock.Date
	To           clock.Date
	GroupBy      domain.GroupBy
}

// ======================================================
// USE CASE
// ======================================================

type Utilization struct {
	repo   domain.Repository
	limits config.SchedulingConfig
}

func NewUtilization(repo domain.Repository, limits config.SchedulingConfig) *Utilization {
	return &Utilization{repo: repo, limits: limits}
}

func (uc *Utilization) load(ctx context.Context, in UtilizationInput) ([]models.TimeSlot, error) {
	if err := validators.CheckRange(in.From, in.To, uc.limits.MaxHorizonDays); err != nil {
		return nil, err
	}
	return uc.repo.ListSlots(ctx, domain.Filter{
		BusinessID:   in.BusinessID,
		SpecialistID: in.SpecialistID,
		FromDate:     in.From.String(),
		ToDate:       in.To.String(),
	})
}

func (uc *Utilization) Stats(
	ctx context.Context,
	in UtilizationInput,
) (*StatsResult, error) {

	if in.GroupBy == "" {
		in.GroupBy = domain.GroupByDay
	}
	if _, err := domain.ParseGroupBy(string(in.GroupBy)); err != nil {
		return nil, err
	}

	slots, err := uc.load(ctx, in)
	if err != nil {
		return nil, err
	}

	periods, summary, err := aggregate(slots, in.GroupBy, in.From, in.To)
	if err != nil {
		return nil, err
	}

	return &StatsResult{
		GroupBy: in.GroupBy,
		From:    in.From,
		To:      in.To,
		Periods: periods,
		Summary: summary,
	}, nil
}

// Report adds a per-specialist breakdown, left out when the request is
// already scoped to one specialist.
func (uc *Utilization) Report(
	ctx context.Context,
	in UtilizationInput,
) (*Report, error) {

	slots, err := uc.load(ctx, in)
	if err != nil {
		return nil, err
	}

	days, summary, err := aggregate(slots, domain.GroupByDay, in.From, in.To)
	if err != nil {
		return nil, err
	}

	report := &Report{
		BusinessID:   in.BusinessID,
		SpecialistID: in.SpecialistID,
		From:         in.From,
		To:           in.To,
		Summary:      summary,
		Days:         days,
	}

	if in.SpecialistID == nil {
		for id, c := range domain.SpecialistCounts(slots) {
			st := SpecialistStats{
				Counts:           *c,
				UtilizationRate:  c.UtilizationRate(),
				AvailabilityRate: c.AvailabilityRate(),
				TotalHours:       c.TotalHours(),
				BookedHours:      c.BookedHours(),
			}
			if id != 0 {
				st.SpecialistID = &id
			}
			report.Specialists = append(report.Specialists, st)
		}
		sort.Slice(report.Specialists, func(i, j int) bool {
			return specialistKey(report.Specialists[i].SpecialistID) < specialistKey(report.Specialists[j].SpecialistID)
		})
	}

	return report, nil
}

// aggregate clips each period's bounds to [from, to] so a partial week or
// month reports only the dates actually counted.
func aggregate(slots []models.TimeSlot, g domain.GroupBy, from, to clock.Date) ([]PeriodStats, Summary, error) {
	buckets, err := domain.Aggregate(slots, g)
	if err != nil {
		return nil, Summary{}, err
	}

	periods := make([]PeriodStats, 0, len(buckets))
	var total domain.Counts
	for _, b := range buckets {
		start, end := b.Start, b.End
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		periods = append(periods, PeriodStats{
			Period:           b.Period,
			StartDate:        start,
			EndDate:          end,
			Counts:           b.Counts,
			UtilizationRate:  b.UtilizationRate(),
			AvailabilityRate: b.AvailabilityRate(),
		})
		total.Total += b.Total
		total.Available += b.Available
		total.Booked += b.Booked
		total.Blocked += b.Blocked
		total.Break += b.Break
		total.TotalMinutes += b.TotalMinutes
		total.BookedMinutes += b.BookedMinutes
	}

	return periods, Summary{
		Counts:           total,
		UtilizationRate:  total.UtilizationRate(),
		AvailabilityRate: total.AvailabilityRate(),
		TotalHours:       total.TotalHours(),
		BookedHours:      total.BookedHours(),
	}, nil
}

func specialistKey(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
