package slot

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

type BulkGenerateInput struct {
	BusinessID  uint
	ActorID     uint
	ScheduleIDs []uint

	From clock.Date
	To   clock.Date

	GenerateBreaks    bool
	OverwriteExisting bool
}

type BulkItem struct {
	ScheduleID uint            `json:"schedule_id"`
	Success    bool            `json:"success"`
	Result     *GenerateResult `json:"result,omitempty"`
	ErrorCode  string          `json:"error_code,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type BulkGenerateResult struct {
	Items     []BulkItem `json:"items"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
}

const maxBulkSchedules = 100

// BulkGenerateSlots runs GenerateSlots for each schedule independently; a
// failing schedule is reported and does not stop the others.
type BulkGenerateSlots struct {
	generate    *GenerateSlots
	log         *zap.Logger
	concurrency int
}

func NewBulkGenerateSlots(generate *GenerateSlots, log *zap.Logger, concurrency int) *BulkGenerateSlots {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BulkGenerateSlots{generate: generate, log: log, concurrency: concurrency}
}

func (uc *BulkGenerateSlots) Execute(
	ctx context.Context,
	in BulkGenerateInput,
) (*BulkGenerateResult, error) {

	ids := dedupe(in.ScheduleIDs)
	if len(ids) == 0 {
		return nil, httperr.Validation("schedule_ids_required", "")
	}
	if len(ids) > maxBulkSchedules {
		return nil, httperr.Validation("too_many_schedules", "")
	}

	items := make([]BulkItem, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			res, err := uc.generate.Execute(gctx, GenerateInput{
				BusinessID:        in.BusinessID,
				ScheduleID:        id,
				ActorID:           in.ActorID,
				From:              in.From,
				To:                in.To,
				GenerateBreaks:    in.GenerateBreaks,
				OverwriteExisting: in.OverwriteExisting,
			})

			item := BulkItem{ScheduleID: id, Success: err == nil, Result: res}
			if err != nil {
				item.Error = err.Error()
				item.ErrorCode = "internal_error"
				if be, ok := asBusiness(err); ok {
					item.ErrorCode = be.Code
				} else {
					uc.log.Error("bulk generation failed", zap.Uint("schedule_id", id), zap.Error(err))
				}
			}
			items[i] = item
			// per-schedule failures never cancel the group
			return nil
		})
	}
	_ = g.Wait()

	out := &BulkGenerateResult{Items: items}
	for _, it := range items {
		if it.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	return out, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func asBusiness(err error) (httperr.BusinessError, bool) {
	var be httperr.BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
