package slot

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const maxBulkBlock = 500

// ======================================================
// BLOCK / UNBLOCK ONE
// ======================================================

type BlockInput struct {
	BusinessID uint
	SlotID     uint
	ActorID    uint
	Reason     string
}

type Blocking struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	timeout time.Duration
	now     func() time.Time
}

func NewBlocking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	timeout time.Duration,
) *Blocking {
	return &Blocking{
		repo:    repo,
		audit:   audit,
		timeout: timeout,
		now:     time.Now,
	}
}

func (uc *Blocking) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

func (uc *Blocking) Block(
	ctx context.Context,
	in BlockInput,
) (*models.TimeSlot, error) {

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, httperr.Validation("block_reason_required", "")
	}

	s, err := uc.repo.GetSlot(ctx, in.BusinessID, in.SlotID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanBlock(domain.Status(s.Status)); err != nil {
		return nil, err
	}

	n, err := uc.repo.Block(ctx, in.BusinessID, in.SlotID, domain.BlockRequest{
		Reason:  reason,
		ActorID: in.ActorID,
		At:      uc.now(),
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, httperr.AlreadyTaken("slot_already_taken")
	}

	uc.dispatch(in.BusinessID, in.ActorID, "slot_blocked", &in.SlotID, map[string]any{"reason": reason})
	return uc.repo.GetSlot(ctx, in.BusinessID, in.SlotID)
}

func (uc *Blocking) Unblock(
	ctx context.Context,
	in BlockInput,
) (*models.TimeSlot, error) {

	s, err := uc.repo.GetSlot(ctx, in.BusinessID, in.SlotID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanUnblock(domain.Status(s.Status)); err != nil {
		return nil, err
	}

	n, err := uc.repo.Unblock(ctx, in.BusinessID, in.SlotID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, httperr.InvalidTransition("slot_not_blocked", "slot changed concurrently")
	}

	uc.dispatch(in.BusinessID, in.ActorID, "slot_unblocked", &in.SlotID, nil)
	return uc.repo.GetSlot(ctx, in.BusinessID, in.SlotID)
}

// ======================================================
// BULK
// ======================================================

type BulkBlockInput struct {
	BusinessID uint
	ActorID    uint
	SlotIDs    []uint
	Reason     string
}

type BulkBlockResult struct {
	BlockedCount    int `json:"blocked_count"`
	SlotsConsidered int `json:"slots_considered"`
}

// BulkBlock blocks whichever of the given slots are still available. Other
// ids are left alone and simply not counted.
func (uc *Blocking) BulkBlock(
	ctx context.Context,
	in BulkBlockInput,
) (*BulkBlockResult, error) {

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, httperr.Validation("block_reason_required", "")
	}
	ids := dedupe(in.SlotIDs)
	if len(ids) == 0 {
		return nil, httperr.Validation("slot_ids_required", "")
	}
	if len(ids) > maxBulkBlock {
		return nil, httperr.Validation("too_many_slots", "")
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	n, err := uc.repo.BlockMany(ctx, in.BusinessID, ids, domain.BlockRequest{
		Reason:  reason,
		ActorID: in.ActorID,
		At:      uc.now(),
	})
	if err != nil {
		return nil, err
	}

	uc.dispatch(in.BusinessID, in.ActorID, "slots_bulk_blocked", nil, map[string]any{
		"reason":     reason,
		"considered": len(ids),
		"blocked":    n,
	})

	return &BulkBlockResult{BlockedCount: int(n), SlotsConsidered: len(ids)}, nil
}

// ======================================================
// TIME RANGE
// ======================================================

type BlockRangeInput struct {
	BusinessID   uint
	SpecialistID *uint
	ActorID      uint
	Start        time.Time
	End          time.Time
	Reason       string
}

type BlockRangeResult struct {
	BlockedCount int       `json:"blocked_count"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// BlockRange blocks every available slot of one calendar lying fully inside
// [Start, End].
func (uc *Blocking) BlockRange(
	ctx context.Context,
	in BlockRangeInput,
) (*BlockRangeResult, error) {

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, httperr.Validation("block_reason_required", "")
	}
	if in.Start.IsZero() || in.End.IsZero() || !in.End.After(in.Start) {
		return nil, httperr.Validation("invalid_time_range", "")
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	n, err := uc.repo.BlockRange(ctx, domain.Owner{
		BusinessID:   in.BusinessID,
		SpecialistID: in.SpecialistID,
	}, in.Start, in.End, domain.BlockRequest{
		Reason:  reason,
		ActorID: in.ActorID,
		At:      uc.now(),
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, httperr.NoAvailableSlots("no_available_slots_in_range")
	}

	uc.dispatch(in.BusinessID, in.ActorID, "slots_range_blocked", nil, map[string]any{
		"reason":  reason,
		"start":   in.Start.UTC(),
		"end":     in.End.UTC(),
		"blocked": n,
	})

	return &BlockRangeResult{BlockedCount: int(n), Start: in.Start, End: in.End}, nil
}

func (uc *Blocking) dispatch(businessID, actorID uint, action string, slotID *uint, meta any) {
	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		ActorID:    &actorID,
		Action:     action,
		Entity:     "time_slot",
		EntityID:   slotID,
		Metadata:   meta,
	})
}
