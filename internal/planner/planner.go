// Package planner turns category-level seasonal demand into per-partner,
// per-SKU weekly plan lines.
package planner

import (
	"fmt"

	"github.com/andresuchdata/retailsim/internal/dimension"
	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/andresuchdata/retailsim/internal/random"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config holds the planner knobs.
type Config struct {
	VolumeScale            float64 // multiplier that lifts base units to weekly volume
	MaxCategoryUnits       int
	MaxLinesPerPartnerWeek int
}

// DefaultConfig returns the reference planner settings.
func DefaultConfig() Config {
	return Config{
		VolumeScale:            20,
		MaxCategoryUnits:       5000,
		MaxLinesPerPartnerWeek: 2500,
	}
}

// Inputs are the dimension tables the planner reads.
type Inputs struct {
	Calendar   dimension.Calendar
	Catalog    *dimension.Catalog
	Roster     dimension.Roster
	Assortment []domain.Carry
	Weights    map[string]float64
}

type carried struct {
	product domain.Product
	weight  float64
}

// Planner builds the plan fact table.
type Planner struct {
	cfg Config
	rng *random.Rand
	log zerolog.Logger
}

// New creates a planner drawing from rng.
func New(cfg Config, rng *random.Rand, log zerolog.Logger) *Planner {
	return &Planner{cfg: cfg, rng: rng, log: log}
}

// Plan returns plan lines ordered by partner priority, week, then assortment order.
func (p *Planner) Plan(in Inputs) ([]domain.PlanLine, error) {
	byPartner := make(map[string][]carried)
	for _, c := range in.Assortment {
		prod, ok := in.Catalog.Lookup(c.SKU)
		if !ok {
			return nil, fmt.Errorf("assortment references unknown sku %s", c.SKU)
		}
		w, ok := in.Weights[c.SKU]
		if !ok {
			return nil, fmt.Errorf("no category weight for sku %s", c.SKU)
		}
		byPartner[c.Partner] = append(byPartner[c.Partner], carried{product: prod, weight: w})
	}

	lines := make([]domain.PlanLine, 0)
	for _, partner := range in.Roster {
		carries := byPartner[partner.Name]
		for _, week := range in.Calendar {
			active := activeCarries(carries, week.WeekIndex)
			if len(active) == 0 {
				continue
			}

			catUnits := p.categoryUnits(partner, week.Season)

			weekLines := make([]domain.PlanLine, 0, len(active))
			for _, c := range active {
				units := domain.RoundUnits(float64(catUnits[c.product.Category]) * c.weight)
				if units <= 0 {
					continue
				}
				weekLines = append(weekLines, newPlanLine(week.WeekIndex, partner.Name, c.product, units))
			}

			if len(weekLines) > p.cfg.MaxLinesPerPartnerWeek {
				p.log.Debug().
					Str("partner", partner.Name).
					Int("week", week.WeekIndex).
					Int("lines", len(weekLines)).
					Msg("sampling plan lines down to cap")
				weekLines = p.sample(weekLines)
			}

			lines = append(lines, weekLines...)
		}
	}

	return lines, nil
}

// categoryUnits draws this week's planned volume for every category, in reference order.
func (p *Planner) categoryUnits(partner domain.Partner, season domain.Season) map[string]int {
	units := make(map[string]int, len(dimension.Categories))
	for _, cat := range dimension.Categories {
		base := cat.BaseUnits * cat.SeasonalMultiplier(season) * partner.DemandMult
		noise := p.rng.Uniform(1-partner.Volatility, 1+partner.Volatility)
		u := domain.RoundUnits(base * noise * p.cfg.VolumeScale)
		if u < 0 {
			u = 0
		}
		if u > p.cfg.MaxCategoryUnits {
			u = p.cfg.MaxCategoryUnits
		}
		units[cat.Name] = u
	}
	return units
}

func (p *Planner) sample(lines []domain.PlanLine) []domain.PlanLine {
	idx := p.rng.Sample(len(lines), p.cfg.MaxLinesPerPartnerWeek)
	out := make([]domain.PlanLine, len(idx))
	for i, j := range idx {
		out[i] = lines[j]
	}
	return out
}

func activeCarries(carries []carried, week int) []carried {
	active := make([]carried, 0, len(carries))
	for _, c := range carries {
		if c.product.Active(week) {
			active = append(active, c)
		}
	}
	return active
}

func newPlanLine(week int, partner string, prod domain.Product, units int) domain.PlanLine {
	u := decimal.NewFromInt(int64(units))
	return domain.PlanLine{
		Week:           week,
		Partner:        partner,
		SKU:            prod.SKU,
		Category:       prod.Category,
		PlannedUnits:   units,
		PlannedRevenue: u.Mul(prod.MSRP).RoundBank(2),
		PlannedGM:      u.Mul(prod.MSRP.Sub(prod.UnitCost)).RoundBank(2),
	}
}
