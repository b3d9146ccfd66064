package dimension

import (
	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/andresuchdata/retailsim/internal/random"
)

// BuildAssortment decides which partner carries which SKU. Each partner
// carries a SKU with probability equal to its breadth.
func BuildAssortment(rng *random.Rand, roster Roster, catalog *Catalog) []domain.Carry {
	carries := make([]domain.Carry, 0)
	for _, p := range roster {
		for _, prod := range catalog.Products {
			if rng.Float64() < p.Breadth {
				carries = append(carries, domain.Carry{Partner: p.Name, SKU: prod.SKU})
			}
		}
	}
	return carries
}
