// Command slotctl runs schedule maintenance jobs against the same database
// as the API: migrations, slot generation and utilization exports.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Config string `help:"Optional YAML config file." type:"path" env:"SALON_CONFIG"`

	Migrate      MigrateCmd      `cmd:"" help:"Apply database migrations."`
	Generate     GenerateCmd     `cmd:"" help:"Generate slots for one schedule."`
	BulkGenerate BulkGenerateCmd `cmd:"" name:"bulk-generate" help:"Generate slots for several schedules."`
	Stats        StatsCmd        `cmd:"" help:"Print utilization statistics as JSON."`
	Export       ExportCmd       `cmd:"" help:"Write the utilization report to an xlsx file."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("slotctl"),
		kong.Description("Salon schedule and slot maintenance"),
		kong.UsageOnError(),
	)

	env, err := open(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = ctx.Run(env)
	env.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
