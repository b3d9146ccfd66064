// Package export renders the simulation output as flat tables and writes them
// to CSV files and an optional workbook.
package export

import (
	"strconv"

	"github.com/andresuchdata/retailsim/internal/dimension"
	"github.com/andresuchdata/retailsim/internal/domain"
)

const dateLayout = "2006-01-02"

// Table is an ordered set of string rows under a fixed header.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// FileName is the CSV file name of the table.
func (t Table) FileName() string {
	return t.Name + ".csv"
}

// Dataset is everything one simulation run produces.
type Dataset struct {
	Calendar    dimension.Calendar
	Roster      dimension.Roster
	Products    []domain.Product
	Assortment  []domain.Carry
	Plan        []domain.PlanLine
	Allocations []domain.AllocationRecord
	Movements   []domain.InventoryMovement
	Budget      []domain.BudgetRow
	KPIs        []domain.WeeklyKPI
}

// Tables renders every output table in a fixed order.
func (d Dataset) Tables() []Table {
	return []Table{
		DateTable(d.Calendar),
		PartnerTable(d.Roster),
		ProductTable(d.Products),
		AssortmentTable(d.Assortment),
		PlanTable(d.Plan),
		AllocationTable(d.Allocations),
		MovementTable(d.Movements),
		BudgetTable(d.Budget),
		KPITable(d.KPIs),
	}
}

func DateTable(cal dimension.Calendar) Table {
	t := Table{
		Name:   "dim_date",
		Header: []string{"Week_Index", "Week_Start_Date", "Fiscal_Year", "Fiscal_Week", "Season", "Fiscal_Month"},
		Rows:   make([][]string, 0, len(cal)),
	}
	for _, w := range cal {
		t.Rows = append(t.Rows, []string{
			itoa(w.WeekIndex),
			w.WeekStartDate.Format(dateLayout),
			itoa(w.FiscalYear),
			itoa(w.FiscalWeek),
			string(w.Season),
			itoa(w.FiscalMonth),
		})
	}
	return t
}

func PartnerTable(roster dimension.Roster) Table {
	t := Table{
		Name:   "dim_partner",
		Header: []string{"Partner", "Tier", "Service_Level_Target", "Priority", "Demand_Mult", "Vol", "Breadth"},
		Rows:   make([][]string, 0, len(roster)),
	}
	for _, p := range roster {
		t.Rows = append(t.Rows, []string{
			p.Name,
			p.Tier,
			ftoa(p.ServiceLevelTarget),
			itoa(p.Priority),
			ftoa(p.DemandMult),
			ftoa(p.Volatility),
			ftoa(p.Breadth),
		})
	}
	return t
}

func ProductTable(products []domain.Product) Table {
	t := Table{
		Name: "dim_product",
		Header: []string{"SKU", "Style", "Category", "Color", "Size", "MSRP", "Unit_Cost", "Target_GM_Pct",
			"Launch_Week_Index", "End_Week_Index"},
		Rows: make([][]string, 0, len(products)),
	}
	for _, p := range products {
		t.Rows = append(t.Rows, []string{
			p.SKU,
			p.Style,
			p.Category,
			p.Color,
			p.Size,
			p.MSRP.StringFixed(2),
			p.UnitCost.StringFixed(2),
			round(p.TargetGMPct, 3),
			itoa(p.LaunchWeek),
			itoa(p.EndWeek),
		})
	}
	return t
}

func AssortmentTable(carries []domain.Carry) Table {
	t := Table{
		Name:   "assortment_map",
		Header: []string{"Partner", "SKU"},
		Rows:   make([][]string, 0, len(carries)),
	}
	for _, c := range carries {
		t.Rows = append(t.Rows, []string{c.Partner, c.SKU})
	}
	return t
}

func PlanTable(lines []domain.PlanLine) Table {
	t := Table{
		Name: "fact_plan",
		Header: []string{"Week_Index", "Partner", "SKU", "Category", "Planned_Units", "Planned_Revenue",
			"Planned_GM_Dollars"},
		Rows: make([][]string, 0, len(lines)),
	}
	for _, l := range lines {
		t.Rows = append(t.Rows, []string{
			itoa(l.Week),
			l.Partner,
			l.SKU,
			l.Category,
			itoa(l.PlannedUnits),
			l.PlannedRevenue.StringFixed(2),
			l.PlannedGM.StringFixed(2),
		})
	}
	return t
}

// AllocationTable renders allocation records with rates rounded to 3 places.
func AllocationTable(records []domain.AllocationRecord) Table {
	t := Table{
		Name: "fact_actual_allocation",
		Header: []string{"Week_Index", "Partner", "SKU", "Category", "Planned_Units", "Forecast_Units",
			"On_Hand_Before_Allocation", "Allocated_Units", "Backorder_Units", "Actual_Units", "Markdown_Rate",
			"Realized_Unit_Price", "Actual_Revenue", "Actual_GM_Dollars", "Fill_Rate", "Forecast_Accuracy"},
		Rows: make([][]string, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			itoa(r.Week),
			r.Partner,
			r.SKU,
			r.Category,
			itoa(r.PlannedUnits),
			itoa(r.ForecastUnits),
			itoa(r.OnHandBefore),
			itoa(r.AllocatedUnits),
			itoa(r.BackorderUnits),
			itoa(r.ActualUnits),
			round(r.MarkdownRate, 3),
			r.RealizedPrice.StringFixed(2),
			r.Revenue.StringFixed(2),
			r.Margin.StringFixed(2),
			round(r.FillRate, 3),
			round(r.ForecastAccuracy, 3),
		})
	}
	return t
}

func MovementTable(moves []domain.InventoryMovement) Table {
	t := Table{
		Name: "fact_inventory_movement",
		Header: []string{"Week_Index", "SKU", "Opening_On_Hand", "Receipt_Units", "On_Hand_Before_Allocation",
			"Allocated_Units", "Backorder_Units", "Closing_On_Hand"},
		Rows: make([][]string, 0, len(moves)),
	}
	for _, m := range moves {
		t.Rows = append(t.Rows, []string{
			itoa(m.Week),
			m.SKU,
			itoa(m.Opening),
			itoa(m.Receipts),
			itoa(m.OnHandBefore),
			itoa(m.AllocatedUnits),
			itoa(m.BackorderUnits),
			itoa(m.Closing),
		})
	}
	return t
}

func BudgetTable(rows []domain.BudgetRow) Table {
	t := Table{
		Name: "fact_budget",
		Header: []string{"Fiscal_Year", "Fiscal_Month", "Partner", "Category", "Budget_Units", "Budget_Revenue",
			"Budget_GM_Dollars"},
		Rows: make([][]string, 0, len(rows)),
	}
	for _, b := range rows {
		t.Rows = append(t.Rows, []string{
			itoa(b.FiscalYear),
			itoa(b.FiscalMonth),
			b.Partner,
			b.Category,
			itoa(b.Units),
			b.Revenue.StringFixed(2),
			b.GM.StringFixed(2),
		})
	}
	return t
}

// KPITable renders weekly KPIs; averages are rounded to 4 places and an
// undefined GM % is written as an empty cell.
func KPITable(rows []domain.WeeklyKPI) Table {
	t := Table{
		Name: "weekly_kpis",
		Header: []string{"Fiscal_Year", "Week_Index", "Season", "Partner", "Category", "Planned_Units",
			"Allocated_Units", "Backorder_Units", "Actual_Units", "Actual_Revenue", "Actual_GM_Dollars",
			"Avg_Fill_Rate", "Avg_Forecast_Accuracy", "Avg_Markdown_Rate", "Actual_GM_Pct"},
		Rows: make([][]string, 0, len(rows)),
	}
	for _, k := range rows {
		gmPct := ""
		if k.GMPct != nil {
			gmPct = round(*k.GMPct, 3)
		}
		t.Rows = append(t.Rows, []string{
			itoa(k.FiscalYear),
			itoa(k.WeekIndex),
			string(k.Season),
			k.Partner,
			k.Category,
			itoa(k.PlannedUnits),
			itoa(k.AllocatedUnits),
			itoa(k.BackorderUnits),
			itoa(k.ActualUnits),
			k.Revenue.StringFixed(2),
			k.GM.StringFixed(2),
			round(k.AvgFillRate, 4),
			round(k.AvgForecastAccuracy, 4),
			round(k.AvgMarkdownRate, 4),
			gmPct,
		})
	}
	return t
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round(v float64, decimals int) string {
	return ftoa(domain.RoundFloat(v, decimals))
}
