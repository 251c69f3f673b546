package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
)

// Store hands out repositories bound to one connection or transaction.
type Store struct {
	db *gorm.DB

	Schedules *ScheduleGormRepository
	Slots     *SlotGormRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Schedules: NewScheduleGormRepository(db),
		Slots:     NewSlotGormRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction. Any
// error from fn, or a cancelled ctx, rolls everything back.
func (s *Store) Transaction(
	ctx context.Context,
	fn func(schedules schedule.Repository, slots slot.Repository) error,
) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewScheduleGormRepository(tx), NewSlotGormRepository(tx))
	})
}
