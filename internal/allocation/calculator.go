package allocation

import (
	"math"

	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Calculator derives stocking, receipt and realization figures under a Policy.
type Calculator struct {
	policy Policy
	rng    Sampler
}

// NewCalculator creates a calculator drawing from rng.
func NewCalculator(policy Policy, rng Sampler) *Calculator {
	return &Calculator{policy: policy, rng: rng}
}

// InitialStock seeds a SKU from the planned units in its early-life window.
// With no planned units it falls back to a random default.
func (c *Calculator) InitialStock(windowPlanned int) int {
	base := float64(windowPlanned)
	if windowPlanned <= 0 {
		base = math.Floor(c.rng.Uniform(c.policy.DefaultStockMin, c.policy.DefaultStockMax))
	}
	units := domain.RoundUnits(base * c.rng.Uniform(c.policy.StockJitterLow, c.policy.StockJitterHigh))
	if units < 0 {
		units = 0
	}
	return units
}

// Taper shrinks receipts as the product ages.
func (c *Calculator) Taper(lifePosition float64) float64 {
	return domain.Clamp(1.0-c.policy.TaperSlope*lifePosition, c.policy.TaperMin, c.policy.TaperMax)
}

// Receipt returns the units received for p in week given the week's total
// planned units. Outside the lifecycle window nothing is received and no draw
// is made.
func (c *Calculator) Receipt(p domain.Product, week, plannedTotal int) int {
	if !p.Active(week) {
		return 0
	}

	// 1. Taper from life position
	taper := c.Taper(p.LifePosition(week))

	// 2. Partial restock ratio
	ratio := c.rng.Uniform(c.policy.ReceiptRatioLow, c.policy.ReceiptRatioHigh)

	// 3. Round and cap
	r := domain.RoundUnits(float64(plannedTotal) * ratio * taper)
	if r < 0 {
		r = 0
	}
	if r > c.policy.ReceiptCap {
		r = c.policy.ReceiptCap
	}
	return r
}

// Waterfall allocates onHand across demands in the given order. Each demand
// takes min(remaining, demand); once stock runs out later demands get nothing.
func Waterfall(onHand int, demands []int) (allocated []int, remaining int) {
	remaining = onHand
	allocated = make([]int, len(demands))
	for i, d := range demands {
		a := d
		if remaining < a {
			a = remaining
		}
		if a < 0 {
			a = 0
		}
		allocated[i] = a
		remaining -= a
	}
	return allocated, remaining
}

// Realize derives sell-through, markdown and KPI figures for one allocated line.
// Draws are made in a fixed order: forecast noise, demand shock, markdown noise.
func (c *Calculator) Realize(p domain.Product, week int, partner string, planned, allocated, onHandBefore int) domain.AllocationRecord {
	pol := c.policy

	// 1. Forecast with noise independent of the allocation
	forecast := domain.RoundUnits(float64(planned) * c.rng.Uniform(pol.ForecastNoiseLow, pol.ForecastNoiseHigh))

	// 2. Actual sell-through never exceeds the allocation
	shock := c.rng.Uniform(pol.DemandShockLow, pol.DemandShockHigh)
	actual := domain.RoundUnits(math.Min(float64(allocated), float64(allocated)*shock))

	// 3. Markdown grows with age and unsold allocation
	baseMD := pol.BaseMarkdown + pol.MarkdownSlope*domain.Clamp(p.LifePosition(week), 0, 1)
	over := allocated - actual
	if over < 0 {
		over = 0
	}
	bump := pol.OverAllocationBump * float64(over) / float64(max(1, allocated))
	markdown := domain.Clamp(baseMD+bump+c.rng.Uniform(pol.MarkdownNoiseLow, pol.MarkdownNoiseHigh), 0, pol.MaxMarkdown)

	// 4. Money
	price := p.MSRP.Mul(decimal.NewFromFloat(1 - markdown)).RoundBank(2)
	units := decimal.NewFromInt(int64(actual))
	revenue := units.Mul(price).RoundBank(2)
	margin := units.Mul(price.Sub(p.UnitCost)).RoundBank(2)

	// 5. Service and forecast KPIs
	fill := 1.0
	if planned > 0 {
		fill = float64(allocated) / float64(planned)
	}
	accuracy := 1 - math.Abs(float64(actual-forecast))/float64(max(1, forecast))
	accuracy = domain.Clamp(accuracy, pol.MinAccuracy, pol.MaxAccuracy)

	return domain.AllocationRecord{
		Week:             week,
		Partner:          partner,
		SKU:              p.SKU,
		Category:         p.Category,
		PlannedUnits:     planned,
		ForecastUnits:    forecast,
		OnHandBefore:     onHandBefore,
		AllocatedUnits:   allocated,
		BackorderUnits:   planned - allocated,
		ActualUnits:      actual,
		MarkdownRate:     markdown,
		RealizedPrice:    price,
		Revenue:          revenue,
		Margin:           margin,
		FillRate:         fill,
		ForecastAccuracy: accuracy,
	}
}
