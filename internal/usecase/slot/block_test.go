package slot

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// seeded returns monday's six morning slots for one specialist.
func seeded(t *testing.T, store *repository.Store, specialist uint, withBreak bool) []models.TimeSlot {
	t.Helper()
	def := seedSchedule(t, store, morning(withBreak), withSpecialist(specialist))
	generate(t, store, def, monday, monday)
	return listAll(t, store)
}

func TestBlockAndUnblock(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	slots := seeded(t, store, 4, false)
	uc := NewBlocking(store.Slots, nil, time.Second)

	if _, err := uc.Block(ctx, BlockInput{BusinessID: business, SlotID: slots[0].ID, ActorID: 8, Reason: "  "}); !httperr.IsBusiness(err, "block_reason_required") {
		t.Fatalf("expected block_reason_required, got %v", err)
	}

	got, err := uc.Block(ctx, BlockInput{BusinessID: business, SlotID: slots[0].ID, ActorID: 8, Reason: "médico"})
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if got.Status != string(domain.StatusBlocked) || got.BlockReason != "médico" || got.BlockedBy == nil || *got.BlockedBy != 8 || got.BlockedAt == nil {
		t.Fatalf("unexpected blocked slot %+v", got)
	}

	if _, err := uc.Block(ctx, BlockInput{BusinessID: business, SlotID: slots[0].ID, ActorID: 8, Reason: "again"}); !httperr.IsKind(err, httperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition on second block, got %v", err)
	}

	got, err = uc.Unblock(ctx, BlockInput{BusinessID: business, SlotID: slots[0].ID, ActorID: 8})
	if err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if got.Status != string(domain.StatusAvailable) || got.BlockReason != "" || got.BlockedBy != nil {
		t.Fatalf("unblock left block data %+v", got)
	}

	if _, err := uc.Unblock(ctx, BlockInput{BusinessID: business, SlotID: slots[0].ID}); !httperr.IsBusiness(err, "slot_not_blocked") {
		t.Fatalf("expected slot_not_blocked, got %v", err)
	}
	if _, err := uc.Block(ctx, BlockInput{BusinessID: business, SlotID: 9999, Reason: "x"}); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBlockRejectsBreakAndBooked(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	slots := seeded(t, store, 4, true)
	uc := NewBlocking(store.Slots, nil, time.Second)

	if slots[2].Status != string(domain.StatusBreak) {
		t.Fatalf("expected 10:00 to be a break, got %s", slots[2].Status)
	}
	if _, err := uc.Block(ctx, BlockInput{BusinessID: business, SlotID: slots[2].ID, Reason: "x"}); !httperr.IsKind(err, httperr.KindInvalidTransition) {
		t.Fatalf("break slot must not be blockable, got %v", err)
	}

	if _, err := store.Slots.Book(ctx, business, slots[0].ID, domain.BookRequest{AppointmentID: 1}); err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := uc.Block(ctx, BlockInput{BusinessID: business, SlotID: slots[0].ID, Reason: "x"}); !httperr.IsBusiness(err, "slot_not_available") {
		t.Fatalf("booked slot must not be blockable, got %v", err)
	}
}

func TestBulkBlockCountsOnlyAvailable(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	slots := seeded(t, store, 4, true)
	uc := NewBlocking(store.Slots, nil, time.Second)

	if _, err := store.Slots.Book(ctx, business, slots[1].ID, domain.BookRequest{AppointmentID: 1}); err != nil {
		t.Fatalf("book: %v", err)
	}

	ids := []uint{slots[0].ID, slots[1].ID, slots[2].ID, slots[3].ID, 9999, slots[0].ID}
	res, err := uc.BulkBlock(ctx, BulkBlockInput{BusinessID: business, ActorID: 2, SlotIDs: ids, Reason: "feriado"})
	if err != nil {
		t.Fatalf("bulk block: %v", err)
	}
	if res.BlockedCount != 2 || res.SlotsConsidered != 5 {
		t.Fatalf("unexpected result %+v", res)
	}

	res, err = uc.BulkBlock(ctx, BulkBlockInput{BusinessID: business, SlotIDs: []uint{slots[0].ID}, Reason: "again"})
	if err != nil || res.BlockedCount != 0 {
		t.Fatalf("expected zero count without error, got %+v err=%v", res, err)
	}

	if _, err := uc.BulkBlock(ctx, BulkBlockInput{BusinessID: business, Reason: "x"}); !httperr.IsBusiness(err, "slot_ids_required") {
		t.Fatalf("expected slot_ids_required, got %v", err)
	}
}

func TestBlockRangeLeavesBookedSlots(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	slots := seeded(t, store, 4, false)
	uc := NewBlocking(store.Slots, nil, time.Second)

	// 09:00..11:30 holds five slots; two of them booked
	for _, i := range []int{1, 3} {
		if _, err := store.Slots.Book(ctx, business, slots[i].ID, domain.BookRequest{AppointmentID: uint(100 + i)}); err != nil {
			t.Fatalf("book: %v", err)
		}
	}

	start := monday.At(clock.MustTimeOfDay("09:00"), time.UTC)
	end := monday.At(clock.MustTimeOfDay("11:30"), time.UTC)

	res, err := uc.BlockRange(ctx, BlockRangeInput{
		BusinessID:   business,
		SpecialistID: uintPtr(4),
		ActorID:      3,
		Start:        start,
		End:          end,
		Reason:       "reunião",
	})
	if err != nil {
		t.Fatalf("block range: %v", err)
	}
	if res.BlockedCount != 3 || !res.Start.Equal(start) || !res.End.Equal(end) {
		t.Fatalf("unexpected result %+v", res)
	}

	counts := map[string]int{}
	for _, s := range listAll(t, store) {
		counts[s.Status]++
	}
	if counts["blocked"] != 3 || counts["booked"] != 2 || counts["available"] != 1 {
		t.Fatalf("unexpected statuses %v", counts)
	}

	_, err = uc.BlockRange(ctx, BlockRangeInput{
		BusinessID:   business,
		SpecialistID: uintPtr(4),
		Start:        start,
		End:          end,
		Reason:       "again",
	})
	if !httperr.IsKind(err, httperr.KindNoAvailableSlots) {
		t.Fatalf("expected no available slots, got %v", err)
	}

	if _, err := uc.BlockRange(ctx, BlockRangeInput{BusinessID: business, Start: end, End: start, Reason: "x"}); !httperr.IsBusiness(err, "invalid_time_range") {
		t.Fatalf("expected invalid_time_range, got %v", err)
	}
}
