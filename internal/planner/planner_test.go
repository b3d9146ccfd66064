package planner

import (
	"testing"
	"time"

	"github.com/andresuchdata/retailsim/internal/dimension"
	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/andresuchdata/retailsim/internal/random"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func buildInputs(t *testing.T, seed int64, skus int) Inputs {
	t.Helper()
	rng := random.New(seed)
	catalog, err := dimension.BuildCatalog(rng, skus, 104)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	roster := dimension.DefaultRoster()
	return Inputs{
		Calendar:   dimension.BuildCalendar(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 104),
		Catalog:    catalog,
		Roster:     roster,
		Assortment: dimension.BuildAssortment(rng, roster, catalog),
		Weights:    dimension.CategoryWeights(catalog.Products, seed),
	}
}

func TestPlan_LinesAreConsistent(t *testing.T) {
	in := buildInputs(t, 42, 120)
	lines, err := New(DefaultConfig(), random.New(1), zerolog.Nop()).Plan(in)
	if err != nil {
		t.Fatalf("Expected plan to succeed, got error: %v", err)
	}
	if len(lines) == 0 {
		t.Fatal("Expected plan lines, got none")
	}

	carried := map[domain.Carry]bool{}
	for _, c := range in.Assortment {
		carried[c] = true
	}

	type lineKey struct {
		partner, sku string
		week         int
	}
	seen := map[lineKey]bool{}
	for _, l := range lines {
		prod, ok := in.Catalog.Lookup(l.SKU)
		if !ok {
			t.Fatalf("unknown SKU %s", l.SKU)
		}
		if !prod.Active(l.Week) {
			t.Errorf("%s planned in week %d outside [%d, %d]", l.SKU, l.Week, prod.LaunchWeek, prod.EndWeek)
		}
		if !carried[domain.Carry{Partner: l.Partner, SKU: l.SKU}] {
			t.Errorf("%s planned for %s which does not carry it", l.SKU, l.Partner)
		}
		if l.PlannedUnits <= 0 {
			t.Errorf("Expected positive planned units, got %d", l.PlannedUnits)
		}
		if l.Category != prod.Category {
			t.Errorf("Expected category %s, got %s", prod.Category, l.Category)
		}
		units := decimal.NewFromInt(int64(l.PlannedUnits))
		if want := units.Mul(prod.MSRP).RoundBank(2); !l.PlannedRevenue.Equal(want) {
			t.Errorf("Expected revenue %s, got %s", want, l.PlannedRevenue)
		}
		if want := units.Mul(prod.MSRP.Sub(prod.UnitCost)).RoundBank(2); !l.PlannedGM.Equal(want) {
			t.Errorf("Expected GM %s, got %s", want, l.PlannedGM)
		}

		key := lineKey{l.Partner, l.SKU, l.Week}
		if seen[key] {
			t.Errorf("duplicate plan line for %v", key)
		}
		seen[key] = true
	}

	if lines[0].Partner != "NuOrder_Direct" {
		t.Errorf("Expected the highest priority partner first, got %s", lines[0].Partner)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	in := buildInputs(t, 42, 60)
	a, err := New(DefaultConfig(), random.New(3), zerolog.Nop()).Plan(in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(DefaultConfig(), random.New(3), zerolog.Nop()).Plan(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("Expected same line count, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].SKU != b[i].SKU || a[i].PlannedUnits != b[i].PlannedUnits || a[i].Week != b[i].Week {
			t.Fatalf("line %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlan_CapsLinesPerPartnerWeek(t *testing.T) {
	in := buildInputs(t, 42, 300)
	cfg := DefaultConfig()
	cfg.MaxLinesPerPartnerWeek = 5

	lines, err := New(cfg, random.New(1), zerolog.Nop()).Plan(in)
	if err != nil {
		t.Fatal(err)
	}

	type partnerWeek struct {
		partner string
		week    int
	}
	perPartnerWeek := map[partnerWeek]int{}
	for _, l := range lines {
		perPartnerWeek[partnerWeek{l.Partner, l.Week}]++
	}
	for key, n := range perPartnerWeek {
		if n > 5 {
			t.Errorf("%+v: expected at most 5 lines, got %d", key, n)
		}
	}
}

func TestPlan_UnknownSKU(t *testing.T) {
	in := buildInputs(t, 42, 30)
	in.Assortment = append(in.Assortment, domain.Carry{Partner: "Macy's", SKU: "SKU99999"})
	if _, err := New(DefaultConfig(), random.New(1), zerolog.Nop()).Plan(in); err == nil {
		t.Fatal("Expected error for unknown SKU, got none")
	}
}

func TestCategoryUnits_Bounds(t *testing.T) {
	p := New(DefaultConfig(), random.New(11), zerolog.Nop())
	partner := domain.Partner{Name: "Amazon", DemandMult: 1.4, Volatility: 0.22}
	for i := 0; i < 50; i++ {
		units := p.categoryUnits(partner, domain.SeasonHoliday)
		if len(units) != len(dimension.Categories) {
			t.Fatalf("Expected %d categories, got %d", len(dimension.Categories), len(units))
		}
		for cat, u := range units {
			if u < 0 || u > 5000 {
				t.Errorf("%s: units %d outside [0, 5000]", cat, u)
			}
		}
	}
}
