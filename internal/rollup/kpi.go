package rollup

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/retailsim/internal/dimension"
	"github.com/andresuchdata/retailsim/internal/domain"
)

type kpiKey struct {
	fiscalYear int
	week       int
	season     domain.Season
	partner    string
	category   string
}

func (a kpiKey) less(b kpiKey) bool {
	if a.fiscalYear != b.fiscalYear {
		return a.fiscalYear < b.fiscalYear
	}
	if a.week != b.week {
		return a.week < b.week
	}
	if a.season != b.season {
		return a.season < b.season
	}
	if a.partner != b.partner {
		return a.partner < b.partner
	}
	return a.category < b.category
}

type kpiAccumulator struct {
	row         domain.WeeklyKPI
	n           int
	fillSum     float64
	accuracySum float64
	mdSum       float64
}

// WeeklyKPIs groups allocation records by week, partner and category.
// Rates are rounded to 3 places before averaging; GM % is nil when revenue
// is zero.
func WeeklyKPIs(records []domain.AllocationRecord, cal dimension.Calendar) ([]domain.WeeklyKPI, error) {
	groups := make(map[kpiKey]*kpiAccumulator)
	for _, r := range records {
		week, ok := cal.Week(r.Week)
		if !ok {
			return nil, fmt.Errorf("allocation record week %d not in calendar", r.Week)
		}
		key := kpiKey{week.FiscalYear, week.WeekIndex, week.Season, r.Partner, r.Category}
		acc, ok := groups[key]
		if !ok {
			acc = &kpiAccumulator{row: domain.WeeklyKPI{
				FiscalYear: key.fiscalYear,
				WeekIndex:  key.week,
				Season:     key.season,
				Partner:    key.partner,
				Category:   key.category,
			}}
			groups[key] = acc
		}
		acc.n++
		acc.row.PlannedUnits += r.PlannedUnits
		acc.row.AllocatedUnits += r.AllocatedUnits
		acc.row.BackorderUnits += r.BackorderUnits
		acc.row.ActualUnits += r.ActualUnits
		acc.row.Revenue = acc.row.Revenue.Add(r.Revenue)
		acc.row.GM = acc.row.GM.Add(r.Margin)
		acc.fillSum += domain.RoundFloat(r.FillRate, 3)
		acc.accuracySum += domain.RoundFloat(r.ForecastAccuracy, 3)
		acc.mdSum += domain.RoundFloat(r.MarkdownRate, 3)
	}

	keys := make([]kpiKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	rows := make([]domain.WeeklyKPI, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		row := acc.row
		n := float64(acc.n)
		row.AvgFillRate = acc.fillSum / n
		row.AvgForecastAccuracy = acc.accuracySum / n
		row.AvgMarkdownRate = acc.mdSum / n
		if !row.Revenue.IsZero() {
			pct := domain.RoundFloat(row.GM.Div(row.Revenue).InexactFloat64(), 3)
			row.GMPct = &pct
		}
		rows = append(rows, row)
	}
	return rows, nil
}
