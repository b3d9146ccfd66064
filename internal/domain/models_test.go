package domain

import "testing"

func TestProduct_Validate(t *testing.T) {
	valid := Product{SKU: "SKU00001", LaunchWeek: 10, EndWeek: 30}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid product, got error: %v", err)
	}

	testCases := []struct {
		name    string
		product Product
	}{
		{"empty sku", Product{LaunchWeek: 1, EndWeek: 2}},
		{"launch before week one", Product{SKU: "SKU1", LaunchWeek: 0, EndWeek: 2}},
		{"end before launch", Product{SKU: "SKU1", LaunchWeek: 5, EndWeek: 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.product.Validate(); err == nil {
				t.Fatalf("Expected error for %s, got none", tc.name)
			}
		})
	}
}

func TestProduct_LifePosition(t *testing.T) {
	p := Product{SKU: "SKU1", LaunchWeek: 10, EndWeek: 30}

	testCases := []struct {
		week int
		want float64
	}{
		{10, 0},
		{20, 0.5},
		{30, 1},
		{35, 1.25},
	}
	for _, tc := range testCases {
		if got := p.LifePosition(tc.week); got != tc.want {
			t.Errorf("week %d: expected life position %v, got %v", tc.week, tc.want, got)
		}
	}

	single := Product{SKU: "SKU2", LaunchWeek: 4, EndWeek: 4}
	if got := single.LifePosition(5); got != 1 {
		t.Errorf("Expected single-week lifecycle to divide by 1, got %v", got)
	}
}

func TestProduct_Active(t *testing.T) {
	p := Product{SKU: "SKU1", LaunchWeek: 10, EndWeek: 30}
	for week, want := range map[int]bool{9: false, 10: true, 30: true, 31: false} {
		if got := p.Active(week); got != want {
			t.Errorf("week %d: expected active=%v, got %v", week, want, got)
		}
	}
}

func TestSeasonForFiscalWeek(t *testing.T) {
	testCases := []struct {
		fw   int
		want Season
	}{
		{1, SeasonSpring},
		{13, SeasonSpring},
		{14, SeasonSummer},
		{26, SeasonSummer},
		{27, SeasonFall},
		{39, SeasonFall},
		{40, SeasonHoliday},
		{52, SeasonHoliday},
	}
	for _, tc := range testCases {
		if got := SeasonForFiscalWeek(tc.fw); got != tc.want {
			t.Errorf("fiscal week %d: expected %s, got %s", tc.fw, tc.want, got)
		}
	}
}
