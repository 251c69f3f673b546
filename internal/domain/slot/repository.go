package slot

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Owner identifies whose calendar a slot belongs to. A nil SpecialistID is
// the business-wide calendar.
type Owner struct {
	BusinessID   uint
	SpecialistID *uint
}

// Filter narrows slot queries. Zero values mean "no restriction".
type Filter struct {
	BusinessID   uint
	SpecialistID *uint
	FromDate     string
	ToDate       string
	StartFrom    time.Time
	StartBefore  time.Time
	Statuses     []Status
	MinDuration  int
	Limit        int
}

type BlockRequest struct {
	Reason  string
	ActorID uint
	At      time.Time
}

type BookRequest struct {
	AppointmentID uint
	ServiceID     *uint
}

// Repository is the SlotStore. State changes are conditional updates that
// report how many rows moved, so callers can tell a lost race from success.
type Repository interface {
	GetSlot(ctx context.Context, businessID, slotID uint) (*models.TimeSlot, error)
	ListSlots(ctx context.Context, f Filter) ([]models.TimeSlot, error)
	FirstSlot(ctx context.Context, f Filter) (*models.TimeSlot, error)

	// -------- Regeneration --------
	ListScheduleSlots(ctx context.Context, scheduleID uint, from, to time.Time) ([]models.TimeSlot, error)
	ListOwnerSlots(ctx context.Context, owner Owner, from, to time.Time) ([]models.TimeSlot, error)
	DeleteSlots(ctx context.Context, ids []uint) (int64, error)
	CreateSlots(ctx context.Context, slots []models.TimeSlot) error
	CountScheduleSlots(ctx context.Context, scheduleID uint) (int64, error)

	// -------- Transitions --------
	Block(ctx context.Context, businessID, slotID uint, req BlockRequest) (int64, error)
	Unblock(ctx context.Context, businessID, slotID uint) (int64, error)
	BlockMany(ctx context.Context, businessID uint, ids []uint, req BlockRequest) (int64, error)
	BlockRange(ctx context.Context, owner Owner, start, end time.Time, req BlockRequest) (int64, error)
	Book(ctx context.Context, businessID, slotID uint, req BookRequest) (int64, error)
	Release(ctx context.Context, businessID, slotID, appointmentID uint) (int64, error)
}
