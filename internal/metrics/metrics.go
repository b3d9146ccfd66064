// Package metrics records run statistics in a Prometheus registry and writes
// them in textfile-collector format.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FileName is the name of the metrics textfile in the output directory.
const FileName = "metrics.prom"

// Run holds the gauges for a single simulation run.
type Run struct {
	registry *prometheus.Registry

	info          *prometheus.GaugeVec
	stageDuration *prometheus.GaugeVec
	tableRows     *prometheus.GaugeVec
	units         *prometheus.GaugeVec
	revenue       prometheus.Gauge
	grossMargin   prometheus.Gauge
	fillRate      prometheus.Gauge
	stockouts     prometheus.Counter
}

// NewRun creates a fresh registry with the run gauges registered.
func NewRun() *Run {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Run{
		registry: reg,
		info: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retailsim_run_info",
			Help: "Run identity; always 1",
		}, []string{"run_id", "seed", "weeks", "skus"}),
		stageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retailsim_stage_duration_seconds",
			Help: "Wall time spent per pipeline stage",
		}, []string{"stage"}),
		tableRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retailsim_table_rows",
			Help: "Rows written per output table",
		}, []string{"table"}),
		units: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retailsim_units",
			Help: "Total units over the horizon by flow",
		}, []string{"flow"}),
		revenue: factory.NewGauge(prometheus.GaugeOpts{
			Name: "retailsim_actual_revenue_dollars",
			Help: "Realized revenue over the horizon",
		}),
		grossMargin: factory.NewGauge(prometheus.GaugeOpts{
			Name: "retailsim_actual_gm_dollars",
			Help: "Realized gross margin over the horizon",
		}),
		fillRate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "retailsim_fill_rate_ratio",
			Help: "Allocated units over planned units",
		}),
		stockouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "retailsim_stockout_lines_total",
			Help: "Allocation lines with zero units allocated",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Run) SetInfo(runID string, seed int64, weeks, skus int) {
	r.info.WithLabelValues(runID, strconv.FormatInt(seed, 10), strconv.Itoa(weeks), strconv.Itoa(skus)).Set(1)
}

func (r *Run) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Set(d.Seconds())
}

func (r *Run) SetTableRows(table string, rows int) {
	r.tableRows.WithLabelValues(table).Set(float64(rows))
}

// Flows are the unit flows reported by SetUnits.
type Flows struct {
	Planned   int
	Allocated int
	Backorder int
	Actual    int
	Receipts  int
}

// SetUnits records unit totals and the overall fill rate.
func (r *Run) SetUnits(f Flows) {
	r.units.WithLabelValues("planned").Set(float64(f.Planned))
	r.units.WithLabelValues("allocated").Set(float64(f.Allocated))
	r.units.WithLabelValues("backorder").Set(float64(f.Backorder))
	r.units.WithLabelValues("actual").Set(float64(f.Actual))
	r.units.WithLabelValues("receipts").Set(float64(f.Receipts))

	fill := 1.0
	if f.Planned > 0 {
		fill = float64(f.Allocated) / float64(f.Planned)
	}
	r.fillRate.Set(fill)
}

func (r *Run) SetMoney(revenue, grossMargin float64) {
	r.revenue.Set(revenue)
	r.grossMargin.Set(grossMargin)
}

func (r *Run) AddStockouts(n int) {
	r.stockouts.Add(float64(n))
}

// WriteTextfile writes the registry to path in the Prometheus text format.
func (r *Run) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
