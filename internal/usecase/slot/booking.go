package slot

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	BusinessID    uint
	SlotID        uint
	ActorID       uint
	AppointmentID uint
	ServiceID     *uint

	// required duration of the service; 0 skips the check
	ServiceDurationMinutes int
}

type ReleaseInput struct {
	BusinessID    uint
	SlotID        uint
	ActorID       uint
	AppointmentID uint
}

// ======================================================
// USE CASE
// ======================================================

// Booking exposes the AVAILABLE <-> BOOKED primitives to the appointment
// side. Both are single conditional updates.
type Booking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewBooking(repo domain.Repository, audit *audit.Dispatcher) *Booking {
	return &Booking{repo: repo, audit: audit}
}

func (uc *Booking) Book(
	ctx context.Context,
	in BookInput,
) (*models.TimeSlot, error) {

	if in.AppointmentID == 0 {
		return nil, httperr.Validation("appointment_required", "")
	}

	s, err := uc.repo.GetSlot(ctx, in.BusinessID, in.SlotID)
	if err != nil {
		return nil, err
	}
	if in.ServiceDurationMinutes > s.DurationMinutes {
		return nil, httperr.Validation("service_duration_exceeds_slot", "")
	}
	if domain.Status(s.Status) == domain.StatusBooked {
		return nil, httperr.AlreadyTaken("slot_already_taken")
	}
	if err := domain.CanBook(domain.Status(s.Status)); err != nil {
		return nil, err
	}

	n, err := uc.repo.Book(ctx, in.BusinessID, in.SlotID, domain.BookRequest{
		AppointmentID: in.AppointmentID,
		ServiceID:     in.ServiceID,
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, httperr.AlreadyTaken("slot_already_taken")
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		ActorID:    &in.ActorID,
		Action:     "slot_booked",
		Entity:     "time_slot",
		EntityID:   &in.SlotID,
		Metadata:   map[string]any{"appointment_id": in.AppointmentID},
	})

	return uc.repo.GetSlot(ctx, in.BusinessID, in.SlotID)
}

func (uc *Booking) Release(
	ctx context.Context,
	in ReleaseInput,
) (*models.TimeSlot, error) {

	s, err := uc.repo.GetSlot(ctx, in.BusinessID, in.SlotID)
	if err != nil {
		return nil, err
	}

	if s.MaxCapacity > 1 {
		if err := domain.CanReleaseSeat(domain.Status(s.Status)); err != nil {
			return nil, err
		}
		if s.CurrentCapacity == 0 {
			return nil, httperr.InvalidTransition("slot_not_booked", "no seat taken")
		}
	} else {
		if err := domain.CanRelease(domain.Status(s.Status)); err != nil {
			return nil, err
		}
		if s.AppointmentID == nil || *s.AppointmentID != in.AppointmentID {
			return nil, httperr.InvalidTransition("appointment_mismatch", "slot is bound to another appointment")
		}
	}

	n, err := uc.repo.Release(ctx, in.BusinessID, in.SlotID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, httperr.InvalidTransition("slot_not_booked", "slot changed concurrently")
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		ActorID:    &in.ActorID,
		Action:     "slot_released",
		Entity:     "time_slot",
		EntityID:   &in.SlotID,
		Metadata:   map[string]any{"appointment_id": in.AppointmentID},
	})

	return uc.repo.GetSlot(ctx, in.BusinessID, in.SlotID)
}
