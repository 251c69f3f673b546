package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func scopeSpecialist(q *gorm.DB, specialistID *uint) *gorm.DB {
	if specialistID == nil {
		return q.Where("specialist_id IS NULL")
	}
	return q.Where("specialist_id = ?", *specialistID)
}

// --------------------------------------------------
// Definition
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateSchedule(
	ctx context.Context,
	s *models.ScheduleDefinition,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ScheduleGormRepository) GetSchedule(
	ctx context.Context,
	businessID uint,
	id uint,
) (*models.ScheduleDefinition, error) {

	var s models.ScheduleDefinition
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&s).Error; err != nil {
		return nil, translate(err, "schedule_not_found")
	}
	return &s, nil
}

// GetScheduleForUpdate locks the row for the rest of the transaction, so two
// regenerations of one schedule run one after the other.
func (r *ScheduleGormRepository) GetScheduleForUpdate(
	ctx context.Context,
	businessID uint,
	id uint,
) (*models.ScheduleDefinition, error) {

	var s models.ScheduleDefinition
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&s).Error; err != nil {
		return nil, translate(err, "schedule_not_found")
	}
	return &s, nil
}

func (r *ScheduleGormRepository) UpdateSchedule(
	ctx context.Context,
	s *models.ScheduleDefinition,
) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ScheduleGormRepository) DeleteSchedule(
	ctx context.Context,
	businessID uint,
	id uint,
) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&models.ScheduleDefinition{}).Error
}

func (r *ScheduleGormRepository) ListSchedules(
	ctx context.Context,
	f schedule.ListFilter,
) ([]models.ScheduleDefinition, error) {

	q := r.db.WithContext(ctx).Where("business_id = ?", f.BusinessID)
	if f.SpecialistID != nil {
		q = q.Where("specialist_id = ?", *f.SpecialistID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	var out []models.ScheduleDefinition
	if err := q.Order("priority DESC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Scope
// --------------------------------------------------

func (r *ScheduleGormRepository) ListScope(
	ctx context.Context,
	businessID uint,
	specialistID *uint,
) ([]models.ScheduleDefinition, error) {

	q := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = ?", businessID, true)

	var out []models.ScheduleDefinition
	if err := scopeSpecialist(q, specialistID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleGormRepository) ClearOtherDefaults(
	ctx context.Context,
	businessID uint,
	specialistID *uint,
	keepID uint,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.ScheduleDefinition{}).
		Where("business_id = ? AND is_default = ? AND id <> ?", businessID, true, keepID)

	res := scopeSpecialist(q, specialistID).Update("is_default", false)
	return res.RowsAffected, res.Error
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
