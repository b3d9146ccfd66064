// Package pipeline runs the simulation stages in order and records the run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/retailsim/internal/allocation"
	"github.com/andresuchdata/retailsim/internal/config"
	"github.com/andresuchdata/retailsim/internal/dimension"
	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/andresuchdata/retailsim/internal/export"
	"github.com/andresuchdata/retailsim/internal/metrics"
	"github.com/andresuchdata/retailsim/internal/planner"
	"github.com/andresuchdata/retailsim/internal/random"
	"github.com/andresuchdata/retailsim/internal/rollup"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Orchestrator coordinates one simulation run from dimensions to output files.
type Orchestrator struct {
	sim     config.SimulationConfig
	out     config.OutputConfig
	log     zerolog.Logger
	metrics *metrics.Run
	now     func() time.Time
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(sim config.SimulationConfig, out config.OutputConfig, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		sim:     sim,
		out:     out,
		log:     log.With().Str("component", "pipeline").Logger(),
		metrics: metrics.NewRun(),
		now:     time.Now,
	}
}

// Run executes every stage and writes the output tables, manifest and metrics.
// The manifest is written on failure too, with the failed status and error.
func (o *Orchestrator) Run(ctx context.Context) (*Manifest, error) {
	if err := o.sim.Validate(); err != nil {
		return nil, err
	}

	m := &Manifest{
		RunID:     RunID(o.sim.Seed, o.sim.Weeks, o.sim.SKUCount, o.sim.StartDate, o.sim.MaxLinesPerPartnerWeek),
		Seed:      o.sim.Seed,
		Weeks:     o.sim.Weeks,
		SKUs:      o.sim.SKUCount,
		StartDate: o.sim.StartDate.Format(config.DateLayout),
		Status:    StatusPending,
		StartedAt: o.now().UTC(),
	}
	log := o.log.With().Str("run_id", m.RunID).Int64("seed", m.Seed).Logger()
	o.metrics.SetInfo(m.RunID, m.Seed, m.Weeks, m.SKUs)

	log.Info().Int("weeks", m.Weeks).Int("skus", m.SKUs).Msg("simulation started")
	m.Status = StatusProcessing

	if err := o.execute(ctx, m, log); err != nil {
		m.Status = StatusFailed
		m.ErrorMessage = err.Error()
		o.finish(m, log)
		return m, err
	}

	m.Status = StatusCompleted
	if err := o.finish(m, log); err != nil {
		return m, err
	}

	log.Info().
		Int("files", len(m.Files)).
		Int("allocated_units", m.Totals.Allocated).
		Msg("simulation completed")
	return m, nil
}

func (o *Orchestrator) execute(ctx context.Context, m *Manifest, log zerolog.Logger) error {
	rng := random.New(o.sim.Seed)
	var ds export.Dataset
	var catalog *dimension.Catalog

	err := o.stage(m, log, StageDimensions, func() error {
		ds.Calendar = dimension.BuildCalendar(o.sim.StartDate, o.sim.Weeks)

		var err error
		catalog, err = dimension.BuildCatalog(rng, o.sim.SKUCount, o.sim.Weeks)
		if err != nil {
			return err
		}
		ds.Products = catalog.Products
		ds.Roster = dimension.DefaultRoster()
		ds.Assortment = dimension.BuildAssortment(rng, ds.Roster, catalog)
		return nil
	})
	if err != nil {
		return err
	}

	err = o.stage(m, log, StagePlan, func() error {
		cfg := planner.DefaultConfig()
		cfg.MaxLinesPerPartnerWeek = o.sim.MaxLinesPerPartnerWeek

		var err error
		ds.Plan, err = planner.New(cfg, rng, log).Plan(planner.Inputs{
			Calendar:   ds.Calendar,
			Catalog:    catalog,
			Roster:     ds.Roster,
			Assortment: ds.Assortment,
			Weights:    dimension.CategoryWeights(catalog.Products, o.sim.Seed),
		})
		return err
	})
	if err != nil {
		return err
	}

	err = o.stage(m, log, StageAllocate, func() error {
		engine := allocation.NewEngine(
			allocation.Config{Policy: allocation.DefaultPolicy(), Logger: &log},
			catalog.Products,
			ds.Roster,
			rng,
		)
		res, err := engine.Run(ctx, ds.Plan, o.sim.Weeks)
		if err != nil {
			return err
		}
		ds.Allocations = res.Records
		ds.Movements = res.Movements
		m.Totals = res.Totals()
		return nil
	})
	if err != nil {
		return err
	}

	err = o.stage(m, log, StageRollup, func() error {
		var err error
		if ds.Budget, err = rollup.Budget(ds.Plan, ds.Calendar, rng); err != nil {
			return err
		}
		ds.KPIs, err = rollup.WeeklyKPIs(ds.Allocations, ds.Calendar)
		return err
	})
	if err != nil {
		return err
	}

	o.recordResults(m, ds.Allocations)

	return o.stage(m, log, StageExport, func() error {
		w := export.NewWriter(export.Options{
			Dir:       o.out.Dir,
			Workers:   o.out.ExportWorkers,
			WriteXLSX: o.out.WriteXLSX,
		}, log)

		files, err := w.WriteAll(ctx, ds.Tables())
		if err != nil {
			return err
		}
		m.Files = files
		for _, f := range files {
			if f.Table != "" {
				o.metrics.SetTableRows(f.Table, f.Rows)
			}
		}
		return nil
	})
}

// stage runs fn and records its duration.
func (o *Orchestrator) stage(m *Manifest, log zerolog.Logger, name string, fn func() error) error {
	start := o.now()
	err := fn()
	took := o.now().Sub(start)

	m.Stages = append(m.Stages, StageTiming{Name: name, DurationMS: float64(took.Microseconds()) / 1000})
	o.metrics.ObserveStage(name, took)

	if err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	log.Debug().Str("stage", name).Dur("took", took).Msg("stage completed")
	return nil
}

func (o *Orchestrator) recordResults(m *Manifest, records []domain.AllocationRecord) {
	revenue, gm := decimal.Zero, decimal.Zero
	stockouts := 0
	for _, r := range records {
		revenue = revenue.Add(r.Revenue)
		gm = gm.Add(r.Margin)
		if r.AllocatedUnits == 0 {
			stockouts++
		}
	}

	o.metrics.SetUnits(metrics.Flows{
		Planned:   m.Totals.Planned,
		Allocated: m.Totals.Allocated,
		Backorder: m.Totals.Backorder,
		Actual:    m.Totals.Actual,
		Receipts:  m.Totals.Receipts,
	})
	o.metrics.SetMoney(revenue.InexactFloat64(), gm.InexactFloat64())
	o.metrics.AddStockouts(stockouts)
}

// finish stamps completion and writes the manifest and metrics files.
func (o *Orchestrator) finish(m *Manifest, log zerolog.Logger) error {
	now := o.now().UTC()
	m.CompletedAt = &now

	if err := os.MkdirAll(o.out.Dir, 0755); err != nil {
		log.Error().Err(err).Msg("failed to create output directory")
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeManifest(filepath.Join(o.out.Dir, ManifestFile), m); err != nil {
		log.Error().Err(err).Msg("failed to write manifest")
		return err
	}

	if o.out.WriteMetrics {
		if err := o.metrics.WriteTextfile(filepath.Join(o.out.Dir, metrics.FileName)); err != nil {
			log.Error().Err(err).Msg("failed to write metrics")
			return err
		}
	}
	return nil
}

func writeManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads the manifest of a previous run from dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}
