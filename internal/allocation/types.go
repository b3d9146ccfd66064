package allocation

import (
	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/pkg/errors"
)

// Sampler is the source of every random draw the engine makes.
type Sampler interface {
	// Uniform returns a draw in [lo, hi).
	Uniform(lo, hi float64) float64
}

var (
	ErrUnknownSKU       = errors.New("plan line references unknown sku")
	ErrUnknownPartner   = errors.New("plan line references unknown partner")
	ErrOutsideLifecycle = errors.New("plan line outside product lifecycle")
	ErrOutsideHorizon   = errors.New("plan line outside simulation horizon")
	ErrNegativePlan     = errors.New("plan line has negative planned units")
	ErrWeekOrder        = errors.New("weeks must be processed in increasing order")
	ErrNotInitialized   = errors.New("inventory not initialized")
)

// Policy holds every constant of the receipt, allocation and markdown model.
type Policy struct {
	// initial stocking
	InitWindowWeeks int // weeks after launch counted toward initial stock (window is inclusive)
	DefaultStockMin float64
	DefaultStockMax float64
	StockJitterLow  float64
	StockJitterHigh float64

	// receipts
	ReceiptRatioLow  float64
	ReceiptRatioHigh float64
	TaperSlope       float64
	TaperMin         float64
	TaperMax         float64
	ReceiptCap       int

	// demand realization
	ForecastNoiseLow  float64
	ForecastNoiseHigh float64
	DemandShockLow    float64
	DemandShockHigh   float64

	// markdown
	BaseMarkdown       float64
	MarkdownSlope      float64
	OverAllocationBump float64
	MarkdownNoiseLow   float64
	MarkdownNoiseHigh  float64
	MaxMarkdown        float64

	// forecast accuracy bounds
	MinAccuracy float64
	MaxAccuracy float64
}

// DefaultPolicy returns the reference model constants.
func DefaultPolicy() Policy {
	return Policy{
		InitWindowWeeks: 6,
		DefaultStockMin: 200,
		DefaultStockMax: 700,
		StockJitterLow:  0.8,
		StockJitterHigh: 1.2,

		ReceiptRatioLow:  0.35,
		ReceiptRatioHigh: 0.85,
		TaperSlope:       0.7,
		TaperMin:         0.15,
		TaperMax:         1.10,
		ReceiptCap:       5000,

		ForecastNoiseLow:  0.85,
		ForecastNoiseHigh: 1.15,
		DemandShockLow:    0.85,
		DemandShockHigh:   1.10,

		BaseMarkdown:       0.02,
		MarkdownSlope:      0.18,
		OverAllocationBump: 0.01,
		MarkdownNoiseLow:   -0.01,
		MarkdownNoiseHigh:  0.02,
		MaxMarkdown:        0.55,

		MinAccuracy: -1,
		MaxAccuracy: 1,
	}
}

// WeekResult is the output of one pass of the weekly loop.
type WeekResult struct {
	Week      int
	Records   []domain.AllocationRecord
	Movements []domain.InventoryMovement
}

// Result is the output of a full simulation run.
type Result struct {
	Records      []domain.AllocationRecord
	Movements    []domain.InventoryMovement
	InitialStock map[string]int
	ClosingStock map[string]int
}

// Totals summarizes unit flows of a result.
type Totals struct {
	Planned   int `json:"planned_units"`
	Allocated int `json:"allocated_units"`
	Backorder int `json:"backorder_units"`
	Actual    int `json:"actual_units"`
	Receipts  int `json:"receipt_units"`
}

// Totals sums the unit flows of the run.
func (r *Result) Totals() Totals {
	var t Totals
	for _, rec := range r.Records {
		t.Planned += rec.PlannedUnits
		t.Allocated += rec.AllocatedUnits
		t.Backorder += rec.BackorderUnits
		t.Actual += rec.ActualUnits
	}
	for _, m := range r.Movements {
		t.Receipts += m.Receipts
	}
	return t
}
