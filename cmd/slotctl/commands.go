package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/app"
	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/logger"
	ucSlot "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

const drainTimeout = 10 * time.Second

// Env is what every command receives from kong.
type Env struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	App    *app.Container
}

func open(path string) (*Env, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	db, err := dbpkg.NewDB(cfg.Database, zl)
	if err != nil {
		return nil, err
	}
	c, err := app.New(cfg, db, zl)
	if err != nil {
		_ = dbpkg.Close(db)
		return nil, err
	}
	return &Env{Config: cfg, Log: zl, DB: db, App: c}, nil
}

func (e *Env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := e.App.Close(ctx); err != nil {
		e.Log.Warn("audit drain", zap.Error(err))
	}
	_ = dbpkg.Close(e.DB)
	_ = e.Log.Sync()
}

// ======================================================
// MIGRATE
// ======================================================

type MigrateCmd struct{}

func (c *MigrateCmd) Run(env *Env) error {
	return dbpkg.Migrate(env.DB, env.Config.Database, env.Log)
}

// ======================================================
// GENERATE
// ======================================================

type RangeFlags struct {
	From string `help:"First day (YYYY-MM-DD). Empty means today."`
	To   string `help:"Last day (YYYY-MM-DD). Empty means the default horizon."`
}

func (r RangeFlags) dates() (clock.Date, clock.Date, error) {
	var from, to clock.Date
	var err error
	if r.From != "" {
		if from, err = clock.ParseDate(r.From); err != nil {
			return from, to, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if r.To != "" {
		if to, err = clock.ParseDate(r.To); err != nil {
			return from, to, fmt.Errorf("invalid --to: %w", err)
		}
	}
	return from, to, nil
}

type GenerateCmd struct {
	Business uint `required:"" help:"Business id."`
	Schedule uint `arg:"" help:"Schedule id."`
	RangeFlags
	NoBreaks  bool `help:"Do not materialize break slots."`
	Overwrite bool `help:"Replace existing unbound slots in the range."`
}

func (c *GenerateCmd) Run(env *Env) error {
	from, to, err := c.dates()
	if err != nil {
		return err
	}
	res, err := env.App.GenerateSlots.Execute(context.Background(), ucSlot.GenerateInput{
		BusinessID:        c.Business,
		ScheduleID:        c.Schedule,
		From:              from,
		To:                to,
		GenerateBreaks:    !c.NoBreaks,
		OverwriteExisting: c.Overwrite,
	})
	if err != nil {
		return err
	}
	fmt.Printf("schedule %d: %s..%s created=%d deleted=%d skipped=%d preserved=%d\n",
		res.ScheduleID, res.From, res.To, res.Created, res.Deleted, res.Skipped, len(res.Preserved))
	return nil
}

type BulkGenerateCmd struct {
	Business  uint   `required:"" help:"Business id."`
	Schedules []uint `arg:"" help:"Schedule ids."`
	RangeFlags
	NoBreaks  bool `help:"Do not materialize break slots."`
	Overwrite bool `help:"Replace existing unbound slots in the range."`
}

func (c *BulkGenerateCmd) Run(env *Env) error {
	from, to, err := c.dates()
	if err != nil {
		return err
	}
	res, err := env.App.BulkGenerateSlots.Execute(context.Background(), ucSlot.BulkGenerateInput{
		BusinessID:        c.Business,
		ScheduleIDs:       c.Schedules,
		From:              from,
		To:                to,
		GenerateBreaks:    !c.NoBreaks,
		OverwriteExisting: c.Overwrite,
	})
	if err != nil {
		return err
	}
	for _, item := range res.Items {
		if item.Success {
			fmt.Printf("schedule %d: created=%d deleted=%d\n", item.ScheduleID, item.Result.Created, item.Result.Deleted)
			continue
		}
		fmt.Printf("schedule %d: %s\n", item.ScheduleID, item.ErrorCode)
	}
	fmt.Printf("succeeded=%d failed=%d\n", res.Succeeded, res.Failed)
	return nil
}

// ======================================================
// UTILIZATION
// ======================================================

type UtilizationFlags struct {
	Business   uint   `required:"" help:"Business id."`
	Specialist uint   `help:"Restrict to one specialist."`
	From       string `required:"" help:"First day (YYYY-MM-DD)."`
	To         string `required:"" help:"Last day (YYYY-MM-DD)."`
}

func (u UtilizationFlags) input() (ucSlot.UtilizationInput, error) {
	from, err := clock.ParseDate(u.From)
	if err != nil {
		return ucSlot.UtilizationInput{}, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := clock.ParseDate(u.To)
	if err != nil {
		return ucSlot.UtilizationInput{}, fmt.Errorf("invalid --to: %w", err)
	}
	in := ucSlot.UtilizationInput{BusinessID: u.Business, From: from, To: to}
	if u.Specialist != 0 {
		id := u.Specialist
		in.SpecialistID = &id
	}
	return in, nil
}

type StatsCmd struct {
	UtilizationFlags
	GroupBy string `name:"group-by" enum:"day,week,month" default:"day" help:"Bucket size."`
}

func (c *StatsCmd) Run(env *Env) error {
	in, err := c.input()
	if err != nil {
		return err
	}
	in.GroupBy = domain.GroupBy(c.GroupBy)

	res, err := env.App.Utilization.Stats(context.Background(), in)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

type ExportCmd struct {
	UtilizationFlags
	Dir string `type:"path" default:"." help:"Output directory."`
}

func (c *ExportCmd) Run(env *Env) error {
	in, err := c.input()
	if err != nil {
		return err
	}

	out, err := env.App.Exporter.Execute(context.Background(), in)
	if err != nil {
		return err
	}

	path := filepath.Join(c.Dir, out.Filename)
	if err := os.WriteFile(path, out.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Println(path)
	if out.ArchiveKey != "" {
		fmt.Printf("archived as %s\n", out.ArchiveKey)
	}
	return nil
}
