package report

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	slotuc "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

// Archiver stores a finished workbook and returns its object key.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type Export struct {
	Filename   string
	Content    []byte
	ArchiveKey string
}

type Exporter struct {
	utilization *slotuc.Utilization
	archiver    Archiver
	log         *zap.Logger
}

// NewExporter: a nil archiver disables archiving.
func NewExporter(utilization *slotuc.Utilization, archiver Archiver, log *zap.Logger) *Exporter {
	return &Exporter{utilization: utilization, archiver: archiver, log: log}
}

func (e *Exporter) Execute(ctx context.Context, in slotuc.UtilizationInput) (*Export, error) {
	r, err := e.utilization.Report(ctx, in)
	if err != nil {
		return nil, err
	}

	buf, err := Workbook(r)
	if err != nil {
		e.log.Error("render utilization workbook", zap.Error(err))
		return nil, err
	}

	out := &Export{
		Filename: fmt.Sprintf("utilizacao_%s_%s.xlsx", in.From, in.To),
		Content:  buf.Bytes(),
	}

	if e.archiver != nil {
		key := path.Join(
			fmt.Sprintf("business-%d", in.BusinessID),
			fmt.Sprintf("%s_%s_%s.xlsx", in.From, in.To, uuid.NewString()),
		)
		archived, err := e.archiver.Put(ctx, key, out.Content, ContentType)
		if err != nil {
			// the file is still returned to the caller
			e.log.Warn("archive utilization workbook", zap.String("key", key), zap.Error(err))
		} else {
			out.ArchiveKey = archived
		}
	}

	return out, nil
}
