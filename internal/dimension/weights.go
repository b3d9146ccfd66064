package dimension

import (
	"github.com/andresuchdata/retailsim/internal/domain"
	"github.com/andresuchdata/retailsim/internal/random"
)

// CategoryWeights splits each category's volume across its SKUs with a
// Dirichlet(1) draw. The result depends only on the categories, the SKU order
// within each category and seed; it does not consume the main stream.
func CategoryWeights(products []domain.Product, seed int64) map[string]float64 {
	byCategory := make(map[string][]string)
	order := make([]string, 0)
	for _, p := range products {
		if _, ok := byCategory[p.Category]; !ok {
			order = append(order, p.Category)
		}
		byCategory[p.Category] = append(byCategory[p.Category], p.SKU)
	}

	weights := make(map[string]float64, len(products))
	for _, cat := range order {
		skus := byCategory[cat]
		draw := random.Derive(seed, cat).Dirichlet(len(skus))
		for i, sku := range skus {
			weights[sku] = draw[i]
		}
	}
	return weights
}
