package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const createBatchSize = 200

type SlotGormRepository struct {
	db *gorm.DB
}

func NewSlotGormRepository(db *gorm.DB) *SlotGormRepository {
	return &SlotGormRepository{db: db}
}

func (r *SlotGormRepository) slots(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.TimeSlot{})
}

func ownerScope(q *gorm.DB, owner slot.Owner) *gorm.DB {
	return scopeSpecialist(q.Where("business_id = ?", owner.BusinessID), owner.SpecialistID)
}

func applyFilter(q *gorm.DB, f slot.Filter) *gorm.DB {
	q = q.Where("business_id = ?", f.BusinessID)

	if f.SpecialistID != nil {
		q = q.Where("specialist_id = ?", *f.SpecialistID)
	}
	if f.FromDate != "" {
		q = q.Where("slot_date >= ?", f.FromDate)
	}
	if f.ToDate != "" {
		q = q.Where("slot_date <= ?", f.ToDate)
	}
	if !f.StartFrom.IsZero() {
		q = q.Where("start_at >= ?", f.StartFrom.UTC())
	}
	if !f.StartBefore.IsZero() {
		q = q.Where("start_at < ?", f.StartBefore.UTC())
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.MinDuration > 0 {
		q = q.Where("duration_minutes >= ?", f.MinDuration)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return q
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *SlotGormRepository) GetSlot(
	ctx context.Context,
	businessID uint,
	slotID uint,
) (*models.TimeSlot, error) {

	var s models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", slotID, businessID).
		First(&s).Error; err != nil {
		return nil, translate(err, "slot_not_found")
	}
	return &s, nil
}

func (r *SlotGormRepository) ListSlots(
	ctx context.Context,
	f slot.Filter,
) ([]models.TimeSlot, error) {

	var out []models.TimeSlot
	if err := applyFilter(r.db.WithContext(ctx), f).
		Order("start_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FirstSlot returns nil without error when nothing matches.
func (r *SlotGormRepository) FirstSlot(
	ctx context.Context,
	f slot.Filter,
) (*models.TimeSlot, error) {

	f.Limit = 1
	out, err := r.ListSlots(ctx, f)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

// --------------------------------------------------
// Regeneration
// --------------------------------------------------

func (r *SlotGormRepository) ListScheduleSlots(
	ctx context.Context,
	scheduleID uint,
	from time.Time,
	to time.Time,
) ([]models.TimeSlot, error) {

	var out []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND start_at >= ? AND start_at < ?", scheduleID, from.UTC(), to.UTC()).
		Order("start_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SlotGormRepository) ListOwnerSlots(
	ctx context.Context,
	owner slot.Owner,
	from time.Time,
	to time.Time,
) ([]models.TimeSlot, error) {

	var out []models.TimeSlot
	if err := ownerScope(r.db.WithContext(ctx), owner).
		Where("start_at < ? AND end_at > ?", to.UTC(), from.UTC()).
		Order("start_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSlots never removes a slot that an appointment holds.
func (r *SlotGormRepository) DeleteSlots(
	ctx context.Context,
	ids []uint,
) (int64, error) {

	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("id IN ? AND appointment_id IS NULL AND current_capacity = 0", ids).
		Delete(&models.TimeSlot{})
	return res.RowsAffected, res.Error
}

func (r *SlotGormRepository) CreateSlots(
	ctx context.Context,
	slots []models.TimeSlot,
) error {

	if len(slots) == 0 {
		return nil
	}
	return duplicateSlot(r.db.WithContext(ctx).CreateInBatches(&slots, createBatchSize).Error)
}

func (r *SlotGormRepository) CountScheduleSlots(
	ctx context.Context,
	scheduleID uint,
) (int64, error) {

	var n int64
	err := r.slots(ctx).Where("schedule_id = ?", scheduleID).Count(&n).Error
	return n, err
}

// --------------------------------------------------
// Transitions
// --------------------------------------------------
// Every transition is a conditional UPDATE on the source status; the row
// count tells the caller whether it won.

func blockedValues(req slot.BlockRequest) map[string]any {
	actor := req.ActorID
	at := req.At.UTC()
	return map[string]any{
		"status":       string(slot.StatusBlocked),
		"block_reason": req.Reason,
		"blocked_by":   &actor,
		"blocked_at":   &at,
		"updated_at":   at,
	}
}

func (r *SlotGormRepository) Block(
	ctx context.Context,
	businessID uint,
	slotID uint,
	req slot.BlockRequest,
) (int64, error) {

	res := r.slots(ctx).
		Where("id = ? AND business_id = ? AND status = ?", slotID, businessID, slot.StatusAvailable).
		Updates(blockedValues(req))
	return res.RowsAffected, res.Error
}

func (r *SlotGormRepository) Unblock(
	ctx context.Context,
	businessID uint,
	slotID uint,
) (int64, error) {

	res := r.slots(ctx).
		Where("id = ? AND business_id = ? AND status = ?", slotID, businessID, slot.StatusBlocked).
		Updates(map[string]any{
			"status":       string(slot.StatusAvailable),
			"block_reason": "",
			"blocked_by":   nil,
			"blocked_at":   nil,
		})
	return res.RowsAffected, res.Error
}

func (r *SlotGormRepository) BlockMany(
	ctx context.Context,
	businessID uint,
	ids []uint,
	req slot.BlockRequest,
) (int64, error) {

	if len(ids) == 0 {
		return 0, nil
	}
	res := r.slots(ctx).
		Where("id IN ? AND business_id = ? AND status = ?", ids, businessID, slot.StatusAvailable).
		Updates(blockedValues(req))
	return res.RowsAffected, res.Error
}

func (r *SlotGormRepository) BlockRange(
	ctx context.Context,
	owner slot.Owner,
	start time.Time,
	end time.Time,
	req slot.BlockRequest,
) (int64, error) {

	res := ownerScope(r.slots(ctx), owner).
		Where("status = ? AND start_at >= ? AND end_at <= ?", slot.StatusAvailable, start.UTC(), end.UTC()).
		Updates(blockedValues(req))
	return res.RowsAffected, res.Error
}

// Book takes one seat. Single-seat slots flip straight to booked; group slots
// stay available until the last seat goes.
func (r *SlotGormRepository) Book(
	ctx context.Context,
	businessID uint,
	slotID uint,
	req slot.BookRequest,
) (int64, error) {

	res := r.slots(ctx).
		Where(
			"id = ? AND business_id = ? AND status = ? AND current_capacity < max_capacity",
			slotID, businessID, slot.StatusAvailable,
		).
		Updates(map[string]any{
			"status": gorm.Expr(
				"CASE WHEN current_capacity + 1 >= max_capacity THEN ? ELSE ? END",
				string(slot.StatusBooked), string(slot.StatusAvailable),
			),
			"current_capacity": gorm.Expr("current_capacity + 1"),
			"appointment_id":   req.AppointmentID,
			"service_id":       req.ServiceID,
		})
	return res.RowsAffected, res.Error
}

// Release frees one seat. A single-seat slot must be booked by the given
// appointment; a group slot must still be available or booked, so a blocked
// slot only leaves that state through Unblock.
func (r *SlotGormRepository) Release(
	ctx context.Context,
	businessID uint,
	slotID uint,
	appointmentID uint,
) (int64, error) {

	res := r.slots(ctx).
		Where("id = ? AND business_id = ? AND current_capacity > 0", slotID, businessID).
		Where(
			"((max_capacity > 1 AND status IN ?) OR (status = ? AND appointment_id = ?))",
			[]string{string(slot.StatusAvailable), string(slot.StatusBooked)},
			slot.StatusBooked, appointmentID,
		).
		Updates(map[string]any{
			"status":           string(slot.StatusAvailable),
			"current_capacity": gorm.Expr("current_capacity - 1"),
			"appointment_id":   gorm.Expr("CASE WHEN current_capacity - 1 > 0 THEN appointment_id ELSE NULL END"),
			"service_id":       gorm.Expr("CASE WHEN current_capacity - 1 > 0 THEN service_id ELSE NULL END"),
		})
	return res.RowsAffected, res.Error
}

// Compile-time check
var _ slot.Repository = (*SlotGormRepository)(nil)
