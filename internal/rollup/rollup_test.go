package rollup

import (
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/retailsim/internal/dimension"
	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/shopspring/decimal"
)

type fixed struct {
	calls []float64
}

// Uniform records the interval low bound and returns 1.0.
func (f *fixed) Uniform(lo, hi float64) float64 {
	f.calls = append(f.calls, lo)
	return 1.0
}

func calendar() dimension.Calendar {
	return dimension.BuildCalendar(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 104)
}

func TestBudget_GroupsAndOrders(t *testing.T) {
	plan := []domain.PlanLine{
		{Week: 1, Partner: "Zappos", Category: "Tops", PlannedUnits: 10, PlannedRevenue: decimal.NewFromInt(100), PlannedGM: decimal.NewFromInt(40)},
		{Week: 2, Partner: "Amazon", Category: "Tops", PlannedUnits: 5, PlannedRevenue: decimal.NewFromInt(50), PlannedGM: decimal.NewFromInt(20)},
		{Week: 3, Partner: "Zappos", Category: "Tops", PlannedUnits: 7, PlannedRevenue: decimal.NewFromInt(70), PlannedGM: decimal.NewFromInt(28)},
		{Week: 53, Partner: "Amazon", Category: "Denim", PlannedUnits: 1, PlannedRevenue: decimal.NewFromInt(9), PlannedGM: decimal.NewFromInt(3)},
	}

	rng := &fixed{}
	rows, err := Budget(plan, calendar(), rng)
	if err != nil {
		t.Fatalf("Expected budget to succeed, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 budget rows, got %d", len(rows))
	}

	if rows[0].Partner != "Amazon" || rows[1].Partner != "Zappos" || rows[2].FiscalYear != 2025 {
		t.Errorf("Unexpected row order: %+v", rows)
	}
	if rows[1].Units != 17 || !rows[1].Revenue.Equal(decimal.NewFromInt(170)) || !rows[1].GM.Equal(decimal.NewFromInt(68)) {
		t.Errorf("Unexpected Zappos row %+v", rows[1])
	}

	// all revenue draws before GM draws
	want := []float64{0.97, 0.97, 0.97, 0.96, 0.96, 0.96}
	if len(rng.calls) != len(want) {
		t.Fatalf("Expected %d draws, got %d", len(want), len(rng.calls))
	}
	for i := range want {
		if rng.calls[i] != want[i] {
			t.Errorf("draw %d: expected band starting %v, got %v", i, want[i], rng.calls[i])
		}
	}
}

func TestBudget_UnknownWeek(t *testing.T) {
	plan := []domain.PlanLine{{Week: 500, Partner: "Amazon", Category: "Tops", PlannedUnits: 1}}
	if _, err := Budget(plan, calendar(), &fixed{}); err == nil {
		t.Fatal("Expected error for week outside calendar, got none")
	}
}

func TestWeeklyKPIs(t *testing.T) {
	records := []domain.AllocationRecord{
		{Week: 2, Partner: "Amazon", Category: "Tops", PlannedUnits: 10, AllocatedUnits: 8, BackorderUnits: 2, ActualUnits: 8,
			Revenue: decimal.RequireFromString("80.00"), Margin: decimal.RequireFromString("30.00"),
			FillRate: 0.8, ForecastAccuracy: 0.9, MarkdownRate: 0.05},
		{Week: 2, Partner: "Amazon", Category: "Tops", PlannedUnits: 10, AllocatedUnits: 10, ActualUnits: 9,
			Revenue: decimal.RequireFromString("90.00"), Margin: decimal.RequireFromString("40.00"),
			FillRate: 1.0, ForecastAccuracy: 0.7, MarkdownRate: 0.07},
		{Week: 1, Partner: "Macy's", Category: "Denim", PlannedUnits: 4, BackorderUnits: 4,
			FillRate: 0, ForecastAccuracy: 0, MarkdownRate: 0.02},
	}

	rows, err := WeeklyKPIs(records, calendar())
	if err != nil {
		t.Fatalf("Expected KPIs to succeed, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 KPI rows, got %d", len(rows))
	}

	first := rows[0]
	if first.WeekIndex != 1 || first.GMPct != nil {
		t.Errorf("Expected week 1 row with empty GM %%, got %+v", first)
	}
	if first.Season != domain.SeasonSpring || first.FiscalYear != 2024 {
		t.Errorf("Unexpected calendar attributes %+v", first)
	}

	second := rows[1]
	if second.PlannedUnits != 20 || second.AllocatedUnits != 18 || second.BackorderUnits != 2 || second.ActualUnits != 17 {
		t.Errorf("Unexpected unit sums %+v", second)
	}
	if !second.Revenue.Equal(decimal.NewFromInt(170)) || !second.GM.Equal(decimal.NewFromInt(70)) {
		t.Errorf("Unexpected money sums %s / %s", second.Revenue, second.GM)
	}
	if math.Abs(second.AvgFillRate-0.9) > 1e-12 {
		t.Errorf("Expected average fill 0.9, got %v", second.AvgFillRate)
	}
	if second.GMPct == nil || *second.GMPct != 0.412 {
		t.Errorf("Expected GM %% 0.412, got %v", second.GMPct)
	}
}

func TestWeeklyKPIs_AveragesRoundedRates(t *testing.T) {
	records := []domain.AllocationRecord{
		{Week: 1, Partner: "Zappos", Category: "Tops", FillRate: 0.66666, ForecastAccuracy: 0.12345, MarkdownRate: 0.0214},
		{Week: 1, Partner: "Zappos", Category: "Tops", FillRate: 0.33333, ForecastAccuracy: 0.12345, MarkdownRate: 0.0214},
	}

	rows, err := WeeklyKPIs(records, calendar())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 KPI row, got %d", len(rows))
	}

	row := rows[0]
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"fill", row.AvgFillRate, (0.667 + 0.333) / 2},
		{"accuracy", row.AvgForecastAccuracy, 0.123},
		{"markdown", row.AvgMarkdownRate, 0.021},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-12 {
			t.Errorf("Expected average %s %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}
