package schedule

import (
	"context"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type GetSchedule struct {
	repo domain.Repository
}

func NewGetSchedule(repo domain.Repository) *GetSchedule {
	return &GetSchedule{repo: repo}
}

func (uc *GetSchedule) Execute(
	ctx context.Context,
	businessID uint,
	scheduleID uint,
) (*models.ScheduleDefinition, error) {
	return uc.repo.GetSchedule(ctx, businessID, scheduleID)
}

type ListSchedules struct {
	repo domain.Repository
}

func NewListSchedules(repo domain.Repository) *ListSchedules {
	return &ListSchedules{repo: repo}
}

func (uc *ListSchedules) Execute(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.ScheduleDefinition, error) {

	out, err := uc.repo.ListSchedules(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.ScheduleDefinition{}
	}
	return out, nil
}
