package schedule

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ListFilter struct {
	BusinessID   uint
	SpecialistID *uint
	ActiveOnly   bool
}

type Repository interface {
	// -------- Definition --------
	CreateSchedule(ctx context.Context, s *models.ScheduleDefinition) error
	GetSchedule(ctx context.Context, businessID, id uint) (*models.ScheduleDefinition, error)
	GetScheduleForUpdate(ctx context.Context, businessID, id uint) (*models.ScheduleDefinition, error)
	UpdateSchedule(ctx context.Context, s *models.ScheduleDefinition) error
	DeleteSchedule(ctx context.Context, businessID, id uint) error
	ListSchedules(ctx context.Context, f ListFilter) ([]models.ScheduleDefinition, error)

	// -------- Scope --------
	// ListScope returns every active schedule of one (business, specialist)
	// pair; a nil specialist is the business-wide scope.
	ListScope(ctx context.Context, businessID uint, specialistID *uint) ([]models.ScheduleDefinition, error)
	ClearOtherDefaults(ctx context.Context, businessID uint, specialistID *uint, keepID uint) (int64, error)
}

// TxRunner runs fn against repositories bound to one transaction.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(schedules Repository, slots slot.Repository) error) error
}
