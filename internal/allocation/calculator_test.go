package allocation

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

// edge returns one end of every interval and counts draws.
type edge struct {
	high  bool
	calls int
}

func (e *edge) Uniform(lo, hi float64) float64 {
	e.calls++
	if e.high {
		return hi
	}
	return lo
}

func TestCalculator_Receipt(t *testing.T) {
	prod := testProduct("SKU00001", 10, 30)

	tests := []struct {
		name      string
		week      int
		planned   int
		want      int
		wantDraws int
	}{
		{"capped", 10, 25000, 5000, 1},
		{"launch week", 10, 100, 85, 1},
		{"end week tapered", 30, 200, 51, 1},
		{"before launch", 9, 100, 0, 0},
		{"past end", 31, 100, 0, 0},
		{"no plan", 20, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &edge{high: true}
			c := NewCalculator(DefaultPolicy(), rng)

			if got := c.Receipt(prod, tt.week, tt.planned); got != tt.want {
				t.Errorf("Expected %d units received, got %d", tt.want, got)
			}
			if rng.calls != tt.wantDraws {
				t.Errorf("Expected %d draws, got %d", tt.wantDraws, rng.calls)
			}
		})
	}
}

func TestCalculator_Realize(t *testing.T) {
	prod := testProduct("SKU00001", 10, 30)

	tests := []struct {
		name         string
		high         bool
		maxMarkdown  float64
		week         int
		planned      int
		allocated    int
		wantForecast int
		wantActual   int
		wantMarkdown float64
		wantFill     float64
		wantAccuracy float64
		wantPrice    string
	}{
		{
			name: "partial fill", high: true, week: 10, planned: 100, allocated: 60,
			wantForecast: 115, wantActual: 60, wantMarkdown: 0.04,
			wantFill: 0.6, wantAccuracy: 1 - 55.0/115.0, wantPrice: "48.00",
		},
		{
			name: "stockout", high: true, week: 10, planned: 100, allocated: 0,
			wantForecast: 115, wantActual: 0, wantMarkdown: 0.04,
			wantFill: 0, wantAccuracy: 0, wantPrice: "48.00",
		},
		{
			name: "nothing planned", high: true, week: 10, planned: 0, allocated: 0,
			wantForecast: 0, wantActual: 0, wantMarkdown: 0.04,
			wantFill: 1, wantAccuracy: 1, wantPrice: "48.00",
		},
		{
			name: "accuracy floor", high: true, week: 10, planned: 1, allocated: 100,
			wantForecast: 1, wantActual: 100, wantMarkdown: 0.04,
			wantFill: 100, wantAccuracy: -1, wantPrice: "48.00",
		},
		{
			name: "unsold allocation bumps markdown", high: false, week: 10, planned: 100, allocated: 100,
			wantForecast: 85, wantActual: 85, wantMarkdown: 0.02 + 0.01*15/100 - 0.01,
			wantFill: 1, wantAccuracy: 1,
		},
		{
			name: "end of life", high: true, week: 30, planned: 100, allocated: 100,
			wantForecast: 115, wantActual: 100, wantMarkdown: 0.22,
			wantFill: 1, wantAccuracy: 1 - 15.0/115.0, wantPrice: "39.00",
		},
		{
			name: "markdown ceiling", high: true, maxMarkdown: 0.03, week: 30, planned: 100, allocated: 100,
			wantForecast: 115, wantActual: 100, wantMarkdown: 0.03,
			wantFill: 1, wantAccuracy: 1 - 15.0/115.0, wantPrice: "48.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol := DefaultPolicy()
			if tt.maxMarkdown > 0 {
				pol.MaxMarkdown = tt.maxMarkdown
			}
			rng := &edge{high: tt.high}
			c := NewCalculator(pol, rng)

			rec := c.Realize(prod, tt.week, "A", tt.planned, tt.allocated, tt.allocated)

			if rng.calls != 3 {
				t.Errorf("Expected 3 draws, got %d", rng.calls)
			}
			if rec.ForecastUnits != tt.wantForecast {
				t.Errorf("Expected forecast %d, got %d", tt.wantForecast, rec.ForecastUnits)
			}
			if rec.ActualUnits != tt.wantActual {
				t.Errorf("Expected %d actual units, got %d", tt.wantActual, rec.ActualUnits)
			}
			if math.Abs(rec.MarkdownRate-tt.wantMarkdown) > 1e-9 {
				t.Errorf("Expected markdown %v, got %v", tt.wantMarkdown, rec.MarkdownRate)
			}
			if math.Abs(rec.FillRate-tt.wantFill) > 1e-9 {
				t.Errorf("Expected fill rate %v, got %v", tt.wantFill, rec.FillRate)
			}
			if math.Abs(rec.ForecastAccuracy-tt.wantAccuracy) > 1e-9 {
				t.Errorf("Expected forecast accuracy %v, got %v", tt.wantAccuracy, rec.ForecastAccuracy)
			}
			if tt.wantPrice != "" && !rec.RealizedPrice.Equal(decimal.RequireFromString(tt.wantPrice)) {
				t.Errorf("Expected realized price %s, got %s", tt.wantPrice, rec.RealizedPrice)
			}
			if rec.BackorderUnits != tt.planned-tt.allocated {
				t.Errorf("Expected backorder %d, got %d", tt.planned-tt.allocated, rec.BackorderUnits)
			}
		})
	}
}
