package dimension

import (
	"fmt"

	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/andresuchdata/retailsim/internal/random"
)

const (
	capsuleLifeMin = 10
	capsuleLifeMax = 22 // exclusive
	coreLifeMin    = 24
	coreLifeMax    = 62 // exclusive
)

// Catalog is the product dimension with SKU lookup.
type Catalog struct {
	Products []domain.Product
	bySKU    map[string]int
}

// NewCatalog indexes products by SKU, rejecting invalid or duplicate rows.
func NewCatalog(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		Products: products,
		bySKU:    make(map[string]int, len(products)),
	}
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.bySKU[p.SKU]; dup {
			return nil, fmt.Errorf("duplicate sku %s", p.SKU)
		}
		c.bySKU[p.SKU] = i
	}
	return c, nil
}

// Lookup returns the product for a SKU.
func (c *Catalog) Lookup(sku string) (domain.Product, bool) {
	i, ok := c.bySKU[sku]
	if !ok {
		return domain.Product{}, false
	}
	return c.Products[i], true
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.Products)
}

// BuildCatalog draws count products whose lifecycles fit in weeks.
//
// Attribute columns are drawn first for the whole catalog (category, color,
// size, style), then pricing and lifecycle per product.
func BuildCatalog(rng *random.Rand, count, weeks int) (*Catalog, error) {
	if weeks < coreLifeMax {
		return nil, fmt.Errorf("horizon of %d weeks cannot fit a %d week lifecycle", weeks, coreLifeMax-1)
	}

	mix := make([]float64, len(Categories))
	for i, c := range Categories {
		mix[i] = c.MixProb
	}

	cats := make([]CategoryProfile, count)
	for i := range cats {
		cats[i] = Categories[rng.Choice(mix)]
	}
	colorOf := make([]string, count)
	for i := range colorOf {
		colorOf[i] = colors[rng.IntRange(0, len(colors))]
	}
	sizeOf := make([]string, count)
	for i := range sizeOf {
		sizeOf[i] = sizes[rng.Choice(sizeProbs)]
	}
	styleCount := count / 3
	if styleCount < 1 {
		styleCount = 1
	}
	styleOf := make([]string, count)
	for i := range styleOf {
		styleOf[i] = fmt.Sprintf("STY%04d", rng.IntRange(1, styleCount+1))
	}

	products := make([]domain.Product, 0, count)
	for i, cat := range cats {
		msrp := domain.Money(rng.Uniform(cat.MSRPLow, cat.MSRPHigh))
		cost := domain.Money(msrp.InexactFloat64() * rng.Uniform(cat.CostRatio-0.05, cat.CostRatio+0.05))
		tgm := domain.RoundFloat(1-cost.Div(msrp).InexactFloat64(), 3)

		var life int
		if cat.Name == CapsuleCategory {
			life = rng.IntRange(capsuleLifeMin, capsuleLifeMax)
		} else {
			life = rng.IntRange(coreLifeMin, coreLifeMax)
		}
		launch := rng.IntRange(1, weeks-life+1)

		products = append(products, domain.Product{
			SKU:         fmt.Sprintf("SKU%05d", i+1),
			Style:       styleOf[i],
			Category:    cat.Name,
			Color:       colorOf[i],
			Size:        sizeOf[i],
			MSRP:        msrp,
			UnitCost:    cost,
			TargetGMPct: tgm,
			LaunchWeek:  launch,
			EndWeek:     launch + life - 1,
		})
	}

	return NewCatalog(products)
}
