package main

import (
	"fmt"
	"time"

	"github.com/andresuchdata/retailsim/internal/config"
	"github.com/andresuchdata/retailsim/internal/pipeline"
	"github.com/andresuchdata/retailsim/pkg/logger"
	"github.com/urfave/cli/v2"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Run the simulation and write the output tables",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "Random seed; equal seeds produce byte-identical CSVs",
				EnvVars: []string{"SIM_SEED"},
			},
			&cli.IntFlag{
				Name:    "weeks",
				Usage:   "Number of simulated weeks",
				EnvVars: []string{"SIM_WEEKS"},
			},
			&cli.StringFlag{
				Name:    "start-date",
				Usage:   "First week start date (YYYY-MM-DD)",
				EnvVars: []string{"SIM_START_DATE"},
			},
			&cli.IntFlag{
				Name:    "skus",
				Usage:   "Number of SKUs in the catalog",
				EnvVars: []string{"SIM_SKUS"},
			},
			&cli.IntFlag{
				Name:    "max-lines",
				Usage:   "Maximum plan lines per partner and week",
				EnvVars: []string{"SIM_MAX_LINES_PER_PARTNER_WEEK"},
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory for output files",
				EnvVars: []string{"OUTPUT_DIR"},
			},
			&cli.BoolFlag{
				Name:    "xlsx",
				Usage:   "Also write retail_model.xlsx",
				EnvVars: []string{"OUTPUT_XLSX"},
			},
			&cli.BoolFlag{
				Name:    "metrics",
				Usage:   "Write metrics.prom",
				EnvVars: []string{"OUTPUT_METRICS"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Concurrent table writers",
				EnvVars: []string{"EXPORT_WORKERS"},
			},
		},
		Action: runGenerate,
	}
}

// applyGenerateFlags overrides configuration with explicitly set flags.
func applyGenerateFlags(c *cli.Context, cfg *config.Config) error {
	sim := &cfg.Simulation
	if c.IsSet("seed") {
		sim.Seed = c.Int64("seed")
	}
	if c.IsSet("weeks") {
		sim.Weeks = c.Int("weeks")
	}
	if c.IsSet("start-date") {
		start, err := time.Parse(config.DateLayout, c.String("start-date"))
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", c.String("start-date"), err)
		}
		sim.StartDate = start
	}
	if c.IsSet("skus") {
		sim.SKUCount = c.Int("skus")
	}
	if c.IsSet("max-lines") {
		sim.MaxLinesPerPartnerWeek = c.Int("max-lines")
	}

	out := &cfg.Output
	if c.IsSet("output-dir") {
		out.Dir = c.String("output-dir")
	}
	if c.IsSet("xlsx") {
		out.WriteXLSX = c.Bool("xlsx")
	}
	if c.IsSet("metrics") {
		out.WriteMetrics = c.Bool("metrics")
	}
	if c.IsSet("workers") {
		out.ExportWorkers = c.Int("workers")
	}
	return sim.Validate()
}

func runGenerate(c *cli.Context) error {
	cfg := configFrom(c)
	if err := applyGenerateFlags(c, cfg); err != nil {
		return err
	}

	o := pipeline.NewOrchestrator(cfg.Simulation, cfg.Output, logger.Log)
	m, err := o.Run(c.Context)
	if err != nil {
		return err
	}

	for _, f := range m.Files {
		logger.Log.Info().Str("path", f.Path).Int("rows", f.Rows).Msg("wrote")
	}
	fmt.Fprintln(c.App.Writer, cfg.Output.Dir)
	return nil
}
