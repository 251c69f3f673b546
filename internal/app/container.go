// Package app wires repositories, use cases and infrastructure once, for
// both the HTTP server and the admin CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/salon-scheduler/internal/report"
	ucSchedule "github.com/BruksfildServices01/salon-scheduler/internal/usecase/schedule"
	ucSlot "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

const auditBufferSize = 256

type Container struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *zap.Logger

	Store    *repository.Store
	AuditLog *audit.Logger
	Audit    *audit.Dispatcher

	// -------- Schedules --------
	CreateSchedule *ucSchedule.CreateSchedule
	UpdateSchedule *ucSchedule.UpdateSchedule
	DeleteSchedule *ucSchedule.DeleteSchedule
	GetSchedule    *ucSchedule.GetSchedule
	ListSchedules  *ucSchedule.ListSchedules

	// -------- Slots --------
	GenerateSlots     *ucSlot.GenerateSlots
	BulkGenerateSlots *ucSlot.BulkGenerateSlots
	Availability      *ucSlot.Availability
	Blocking          *ucSlot.Blocking
	Booking           *ucSlot.Booking
	Utilization       *ucSlot.Utilization

	// -------- Reports --------
	Exporter *report.Exporter
}

func New(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*Container, error) {
	store := repository.NewStore(db)
	auditLog := audit.New(db)
	dispatcher := audit.NewDispatcher(auditLog, log, auditBufferSize)

	limits := cfg.Scheduling

	generate := ucSlot.NewGenerateSlots(store, dispatcher, log, limits)
	utilization := ucSlot.NewUtilization(store.Slots, limits)

	var archiver report.Archiver
	if cfg.Export.S3Bucket != "" {
		s3, err := storage.NewS3Archiver(cfg.Export)
		if err != nil {
			return nil, fmt.Errorf("s3 archiver: %w", err)
		}
		archiver = s3
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Log:    log,

		Store:    store,
		AuditLog: auditLog,
		Audit:    dispatcher,

		CreateSchedule: ucSchedule.NewCreateSchedule(store, dispatcher, log),
		UpdateSchedule: ucSchedule.NewUpdateSchedule(store, generate, dispatcher, log, limits.AutoRegenerateOnUpdate),
		DeleteSchedule: ucSchedule.NewDeleteSchedule(store, dispatcher, log),
		GetSchedule:    ucSchedule.NewGetSchedule(store.Schedules),
		ListSchedules:  ucSchedule.NewListSchedules(store.Schedules),

		GenerateSlots:     generate,
		BulkGenerateSlots: ucSlot.NewBulkGenerateSlots(generate, log, limits.BulkConcurrency),
		Availability:      ucSlot.NewAvailability(store.Slots, limits),
		Blocking:          ucSlot.NewBlocking(store.Slots, dispatcher, limits.RegenerationTimeout),
		Booking:           ucSlot.NewBooking(store.Slots, dispatcher),
		Utilization:       utilization,

		Exporter: report.NewExporter(utilization, archiver, log),
	}, nil
}

// Close drains pending audit events.
func (c *Container) Close(ctx context.Context) error {
	return c.Audit.Close(ctx)
}
