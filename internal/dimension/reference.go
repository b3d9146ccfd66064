package dimension

import "github.com/andresuchdata/retailsim/internal/domain"

// CategoryProfile is the reference data for one merchandise category.
type CategoryProfile struct {
	Name      string
	MixProb   float64 // share of the catalog
	BaseUnits float64 // weekly base units before seasonality and partner scaling
	MSRPLow   float64
	MSRPHigh  float64
	CostRatio float64 // unit cost as a fraction of MSRP
	Seasonal  map[domain.Season]float64
}

var (
	denimSeasonal   = map[domain.Season]float64{domain.SeasonSpring: 1.00, domain.SeasonSummer: 0.95, domain.SeasonFall: 1.05, domain.SeasonHoliday: 1.10}
	defaultSeasonal = map[domain.Season]float64{domain.SeasonSpring: 1.02, domain.SeasonSummer: 1.00, domain.SeasonFall: 1.03, domain.SeasonHoliday: 1.06}
)

// Categories lists the categories in reference order. The order drives the
// draw sequence of the planner and must stay stable.
var Categories = []CategoryProfile{
	{Name: "Men's Denim", MixProb: 0.12, BaseUnits: 18, MSRPLow: 49.95, MSRPHigh: 79.95, CostRatio: 0.48, Seasonal: denimSeasonal},
	{Name: "Women's Denim", MixProb: 0.12, BaseUnits: 20, MSRPLow: 39.95, MSRPHigh: 69.95, CostRatio: 0.46, Seasonal: denimSeasonal},
	{Name: "Aerie Intimates", MixProb: 0.10, BaseUnits: 26, MSRPLow: 14.95, MSRPHigh: 34.95, CostRatio: 0.42,
		Seasonal: map[domain.Season]float64{domain.SeasonSpring: 1.00, domain.SeasonSummer: 1.05, domain.SeasonFall: 0.98, domain.SeasonHoliday: 1.08}},
	{Name: "Graphic Tees", MixProb: 0.10, BaseUnits: 22, MSRPLow: 12.95, MSRPHigh: 29.95, CostRatio: 0.40,
		Seasonal: map[domain.Season]float64{domain.SeasonSpring: 1.05, domain.SeasonSummer: 1.10, domain.SeasonFall: 0.95, domain.SeasonHoliday: 1.00}},
	{Name: "Tops & Blouses", MixProb: 0.10, BaseUnits: 16, MSRPLow: 19.95, MSRPHigh: 49.95, CostRatio: 0.44, Seasonal: defaultSeasonal},
	{Name: "Outerwear", MixProb: 0.08, BaseUnits: 10, MSRPLow: 59.95, MSRPHigh: 129.95, CostRatio: 0.52,
		Seasonal: map[domain.Season]float64{domain.SeasonSpring: 0.75, domain.SeasonSummer: 0.55, domain.SeasonFall: 1.15, domain.SeasonHoliday: 1.45}},
	{Name: "Activewear", MixProb: 0.10, BaseUnits: 14, MSRPLow: 24.95, MSRPHigh: 69.95, CostRatio: 0.45, Seasonal: defaultSeasonal},
	{Name: "Accessories", MixProb: 0.08, BaseUnits: 12, MSRPLow: 9.95, MSRPHigh: 39.95, CostRatio: 0.38, Seasonal: defaultSeasonal},
	{Name: "Loungewear", MixProb: 0.10, BaseUnits: 15, MSRPLow: 19.95, MSRPHigh: 59.95, CostRatio: 0.43, Seasonal: defaultSeasonal},
	{Name: "Seasonal Capsule", MixProb: 0.10, BaseUnits: 9, MSRPLow: 29.95, MSRPHigh: 99.95, CostRatio: 0.50,
		Seasonal: map[domain.Season]float64{domain.SeasonSpring: 1.10, domain.SeasonSummer: 1.05, domain.SeasonFall: 1.05, domain.SeasonHoliday: 1.20}},
}

// CapsuleCategory has short lifecycles.
const CapsuleCategory = "Seasonal Capsule"

var (
	colors    = []string{"Black", "White", "Blue", "Navy", "Gray", "Red", "Green", "Pink", "Tan"}
	sizes     = []string{"XS", "S", "M", "L", "XL", "XXL"}
	sizeProbs = []float64{0.10, 0.18, 0.24, 0.24, 0.16, 0.08}
)

// defaultPartners is the distribution partner roster, unsorted.
var defaultPartners = []domain.Partner{
	{Name: "Macy's", Tier: "Tier 1", ServiceLevelTarget: 0.92, Priority: 1, DemandMult: 1.00, Volatility: 0.18, Breadth: 0.70},
	{Name: "Nordstrom", Tier: "Tier 1", ServiceLevelTarget: 0.94, Priority: 2, DemandMult: 0.70, Volatility: 0.16, Breadth: 0.55},
	{Name: "Amazon", Tier: "Tier 1", ServiceLevelTarget: 0.90, Priority: 3, DemandMult: 1.40, Volatility: 0.22, Breadth: 0.45},
	{Name: "Zappos", Tier: "Tier 2", ServiceLevelTarget: 0.88, Priority: 4, DemandMult: 0.45, Volatility: 0.20, Breadth: 0.35},
	{Name: "NuOrder_Direct", Tier: "Direct", ServiceLevelTarget: 0.95, Priority: 0, DemandMult: 0.55, Volatility: 0.12, Breadth: 0.60},
}

// CategoryByName returns the profile for a category name.
func CategoryByName(name string) (CategoryProfile, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryProfile{}, false
}

// SeasonalMultiplier returns the demand multiplier of a category in a season.
func (c CategoryProfile) SeasonalMultiplier(season domain.Season) float64 {
	if m, ok := c.Seasonal[season]; ok {
		return m
	}
	return 1.0
}
