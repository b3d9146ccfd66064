// Package allocation runs the weekly inventory loop: initial stocking,
// receipts, priority waterfall allocation and markdown realization.
package allocation

import (
	"context"
	"sort"

	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Config configures an Engine.
type Config struct {
	Policy Policy
	// Logger receives per-week progress. Nil disables logging.
	Logger *zerolog.Logger
}

// Engine owns the inventory state and applies the allocation policy week by week.
type Engine struct {
	policy   Policy
	calc     *Calculator
	products map[string]domain.Product
	order    []string // SKUs in catalog order
	priority map[string]int
	inv      *Inventory
	log      zerolog.Logger

	initialized bool
	lastWeek    int
}

// NewEngine creates an engine over the given products and partners.
func NewEngine(cfg Config, products []domain.Product, partners []domain.Partner, rng Sampler) *Engine {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	e := &Engine{
		policy:   cfg.Policy,
		calc:     NewCalculator(cfg.Policy, rng),
		products: make(map[string]domain.Product, len(products)),
		order:    make([]string, 0, len(products)),
		priority: make(map[string]int, len(partners)),
		inv:      NewInventory(),
		log:      log.With().Str("component", "allocation").Logger(),
	}
	for _, p := range products {
		if _, dup := e.products[p.SKU]; !dup {
			e.order = append(e.order, p.SKU)
		}
		e.products[p.SKU] = p
	}
	for _, p := range partners {
		e.priority[p.Name] = p.Priority
	}
	return e
}

// Inventory exposes the current on-hand state.
func (e *Engine) Inventory() *Inventory {
	return e.inv
}

// Initialize seeds on-hand inventory for every product, in catalog order,
// from the planned units of its first weeks of life.
func (e *Engine) Initialize(plan []domain.PlanLine) error {
	windowPlanned := make(map[string]int, len(e.products))
	for _, l := range plan {
		prod, err := e.validate(l)
		if err != nil {
			return err
		}
		if l.Week >= prod.LaunchWeek && l.Week <= min(prod.LaunchWeek+e.policy.InitWindowWeeks, prod.EndWeek) {
			windowPlanned[l.SKU] += l.PlannedUnits
		}
	}

	for _, sku := range e.order {
		e.inv.Set(sku, e.calc.InitialStock(windowPlanned[sku]))
	}
	e.initialized = true
	e.lastWeek = 0

	e.log.Debug().Int("skus", e.inv.Len()).Msg("initial inventory seeded")
	return nil
}

// RunWeek receives stock for every SKU planned this week, then allocates each
// SKU's on-hand across its partner lines by priority. Weeks must be processed in
// increasing order after Initialize.
func (e *Engine) RunWeek(week int, lines []domain.PlanLine) (*WeekResult, error) {
	if !e.initialized {
		return nil, errors.WithStack(ErrNotInitialized)
	}
	if week <= e.lastWeek {
		return nil, errors.Wrapf(ErrWeekOrder, "week %d after week %d", week, e.lastWeek)
	}

	bySKU := make(map[string][]domain.PlanLine)
	for _, l := range lines {
		if l.Week != week {
			return nil, errors.Wrapf(ErrOutsideHorizon, "line for week %d passed to week %d", l.Week, week)
		}
		if _, err := e.validate(l); err != nil {
			return nil, err
		}
		if l.PlannedUnits == 0 {
			continue
		}
		bySKU[l.SKU] = append(bySKU[l.SKU], l)
	}

	skus := make([]string, 0, len(bySKU))
	for sku := range bySKU {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	res := &WeekResult{Week: week}
	opening := make(map[string]int, len(skus))
	receipts := make(map[string]int, len(skus))

	// 1. Receipts for every planned SKU before any allocation
	for _, sku := range skus {
		total := 0
		for _, l := range bySKU[sku] {
			total += l.PlannedUnits
		}
		opening[sku] = e.inv.OnHand(sku)
		receipts[sku] = e.calc.Receipt(e.products[sku], week, total)
		e.inv.Add(sku, receipts[sku])
	}

	// 2. Waterfall allocation and realization per SKU
	for _, sku := range skus {
		prod := e.products[sku]
		skuLines := bySKU[sku]
		sort.SliceStable(skuLines, func(i, j int) bool {
			return e.priority[skuLines[i].Partner] < e.priority[skuLines[j].Partner]
		})

		onHand := e.inv.OnHand(sku)
		demands := make([]int, len(skuLines))
		for i, l := range skuLines {
			demands[i] = l.PlannedUnits
		}
		allocated, remaining := Waterfall(onHand, demands)

		move := domain.InventoryMovement{
			Week:         week,
			SKU:          sku,
			Opening:      opening[sku],
			Receipts:     receipts[sku],
			OnHandBefore: onHand,
			Closing:      remaining,
		}
		for i, l := range skuLines {
			rec := e.calc.Realize(prod, week, l.Partner, l.PlannedUnits, allocated[i], onHand)
			res.Records = append(res.Records, rec)
			move.AllocatedUnits += rec.AllocatedUnits
			move.BackorderUnits += rec.BackorderUnits
		}
		res.Movements = append(res.Movements, move)

		e.inv.Set(sku, remaining)
	}

	e.lastWeek = week
	return res, nil
}

// Run initializes inventory from plan and processes weeks 1..weeks in order.
func (e *Engine) Run(ctx context.Context, plan []domain.PlanLine, weeks int) (*Result, error) {
	byWeek := make(map[int][]domain.PlanLine)
	for _, l := range plan {
		if l.Week < 1 || l.Week > weeks {
			return nil, errors.Wrapf(ErrOutsideHorizon, "sku %s partner %s week %d of %d", l.SKU, l.Partner, l.Week, weeks)
		}
		byWeek[l.Week] = append(byWeek[l.Week], l)
	}

	if err := e.Initialize(plan); err != nil {
		return nil, err
	}

	res := &Result{InitialStock: e.inv.Snapshot()}
	for week := 1; week <= weeks; week++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "allocation stopped at week %d", week)
		}

		wr, err := e.RunWeek(week, byWeek[week])
		if err != nil {
			return nil, err
		}
		res.Records = append(res.Records, wr.Records...)
		res.Movements = append(res.Movements, wr.Movements...)

		if week%13 == 0 {
			e.log.Debug().
				Int("week", week).
				Int("records", len(res.Records)).
				Msg("allocation progress")
		}
	}
	res.ClosingStock = e.inv.Snapshot()

	t := res.Totals()
	e.log.Info().
		Int("records", len(res.Records)).
		Int("planned_units", t.Planned).
		Int("allocated_units", t.Allocated).
		Int("backorder_units", t.Backorder).
		Int("receipt_units", t.Receipts).
		Msg("allocation complete")

	return res, nil
}

func (e *Engine) validate(l domain.PlanLine) (domain.Product, error) {
	prod, ok := e.products[l.SKU]
	if !ok {
		return domain.Product{}, errors.Wrapf(ErrUnknownSKU, "sku %s week %d", l.SKU, l.Week)
	}
	if _, ok := e.priority[l.Partner]; !ok {
		return domain.Product{}, errors.Wrapf(ErrUnknownPartner, "partner %s sku %s", l.Partner, l.SKU)
	}
	if !prod.Active(l.Week) {
		return domain.Product{}, errors.Wrapf(ErrOutsideLifecycle, "sku %s week %d not in [%d, %d]",
			l.SKU, l.Week, prod.LaunchWeek, prod.EndWeek)
	}
	if l.PlannedUnits < 0 {
		return domain.Product{}, errors.Wrapf(ErrNegativePlan, "sku %s partner %s week %d", l.SKU, l.Partner, l.Week)
	}
	return prod, nil
}
