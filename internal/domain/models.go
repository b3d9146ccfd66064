package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CalendarWeek is one row of the weekly calendar dimension.
type CalendarWeek struct {
	WeekIndex     int
	WeekStartDate time.Time
	FiscalYear    int
	FiscalWeek    int
	Season        Season
	FiscalMonth   int
}

type Product struct {
	SKU         string
	Style       string
	Category    string
	Color       string
	Size        string
	MSRP        decimal.Decimal
	UnitCost    decimal.Decimal
	TargetGMPct float64
	LaunchWeek  int // inclusive
	EndWeek     int // inclusive
}

// Validate checks the lifecycle window.
func (p Product) Validate() error {
	if p.SKU == "" {
		return fmt.Errorf("sku cannot be empty")
	}
	if p.LaunchWeek < 1 {
		return fmt.Errorf("sku %s: launch week must be >= 1, got %d", p.SKU, p.LaunchWeek)
	}
	if p.EndWeek < p.LaunchWeek {
		return fmt.Errorf("sku %s: end week %d before launch week %d", p.SKU, p.EndWeek, p.LaunchWeek)
	}
	return nil
}

// Active reports whether week falls inside the product's lifecycle window.
func (p Product) Active(week int) bool {
	return p.LaunchWeek <= week && week <= p.EndWeek
}

// LifePosition is the fraction of the lifecycle elapsed at week, 0 at launch.
// It is not clamped; callers clamp where their policy requires it.
func (p Product) LifePosition(week int) float64 {
	span := p.EndWeek - p.LaunchWeek
	if span < 1 {
		span = 1
	}
	return float64(week-p.LaunchWeek) / float64(span)
}

type Partner struct {
	Name               string
	Tier               string
	ServiceLevelTarget float64
	Priority           int // lower is served first
	DemandMult         float64
	Volatility         float64
	Breadth            float64
}

// Carry marks a SKU carried by a partner.
type Carry struct {
	Partner string
	SKU     string
}

// PlanLine is the planned demand for a (week, partner, SKU).
type PlanLine struct {
	Week           int
	Partner        string
	SKU            string
	Category       string
	PlannedUnits   int
	PlannedRevenue decimal.Decimal
	PlannedGM      decimal.Decimal
}

// AllocationRecord is one realized (week, partner, SKU) outcome.
// Rates are kept at full precision; exporters round them.
type AllocationRecord struct {
	Week             int
	Partner          string
	SKU              string
	Category         string
	PlannedUnits     int
	ForecastUnits    int
	OnHandBefore     int
	AllocatedUnits   int
	BackorderUnits   int
	ActualUnits      int
	MarkdownRate     float64
	RealizedPrice    decimal.Decimal
	Revenue          decimal.Decimal
	Margin           decimal.Decimal
	FillRate         float64
	ForecastAccuracy float64
}

// InventoryMovement is the per (week, SKU) inventory ledger entry.
type InventoryMovement struct {
	Week           int
	SKU            string
	Opening        int
	Receipts       int
	OnHandBefore   int
	AllocatedUnits int
	BackorderUnits int
	Closing        int
}

type BudgetRow struct {
	FiscalYear  int
	FiscalMonth int
	Partner     string
	Category    string
	Units       int
	Revenue     decimal.Decimal
	GM          decimal.Decimal
}

type WeeklyKPI struct {
	FiscalYear          int
	WeekIndex           int
	Season              Season
	Partner             string
	Category            string
	PlannedUnits        int
	AllocatedUnits      int
	BackorderUnits      int
	ActualUnits         int
	Revenue             decimal.Decimal
	GM                  decimal.Decimal
	AvgFillRate         float64
	AvgForecastAccuracy float64
	AvgMarkdownRate     float64
	GMPct               *float64 // nil when revenue is zero
}
