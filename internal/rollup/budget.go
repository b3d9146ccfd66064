// Package rollup aggregates plan lines and allocation records into the
// monthly budget and weekly KPI tables.
package rollup

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/retailsim/internal/dimension"
	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Sampler supplies the budget adjustment draws.
type Sampler interface {
	Uniform(lo, hi float64) float64
}

// Budget adjustment bands applied to planned totals.
const (
	revenueAdjustLow  = 0.97
	revenueAdjustHigh = 1.05
	gmAdjustLow       = 0.96
	gmAdjustHigh      = 1.04
)

type budgetKey struct {
	fiscalYear  int
	fiscalMonth int
	partner     string
	category    string
}

func (a budgetKey) less(b budgetKey) bool {
	if a.fiscalYear != b.fiscalYear {
		return a.fiscalYear < b.fiscalYear
	}
	if a.fiscalMonth != b.fiscalMonth {
		return a.fiscalMonth < b.fiscalMonth
	}
	if a.partner != b.partner {
		return a.partner < b.partner
	}
	return a.category < b.category
}

// Budget groups the plan by fiscal month, partner and category and applies a
// random adjustment to revenue and GM. Every revenue draw is made before any GM
// draw, in group order.
func Budget(plan []domain.PlanLine, cal dimension.Calendar, rng Sampler) ([]domain.BudgetRow, error) {
	groups := make(map[budgetKey]*domain.BudgetRow)
	for _, l := range plan {
		week, ok := cal.Week(l.Week)
		if !ok {
			return nil, fmt.Errorf("plan line week %d not in calendar", l.Week)
		}
		key := budgetKey{week.FiscalYear, week.FiscalMonth, l.Partner, l.Category}
		row, ok := groups[key]
		if !ok {
			row = &domain.BudgetRow{
				FiscalYear:  key.fiscalYear,
				FiscalMonth: key.fiscalMonth,
				Partner:     key.partner,
				Category:    key.category,
			}
			groups[key] = row
		}
		row.Units += l.PlannedUnits
		row.Revenue = row.Revenue.Add(l.PlannedRevenue)
		row.GM = row.GM.Add(l.PlannedGM)
	}

	keys := make([]budgetKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	rows := make([]domain.BudgetRow, len(keys))
	for i, k := range keys {
		rows[i] = *groups[k]
	}
	for i := range rows {
		adj := decimal.NewFromFloat(rng.Uniform(revenueAdjustLow, revenueAdjustHigh))
		rows[i].Revenue = rows[i].Revenue.Mul(adj).RoundBank(2)
	}
	for i := range rows {
		adj := decimal.NewFromFloat(rng.Uniform(gmAdjustLow, gmAdjustHigh))
		rows[i].GM = rows[i].GM.Mul(adj).RoundBank(2)
	}
	return rows, nil
}
