package dimension

import (
	"sort"

	"github.com/andresuchdata/retailsim/internal/domain"
)

// Roster is the partner dimension sorted by ascending priority.
type Roster []domain.Partner

// NewRoster copies partners and sorts them by priority, keeping input order on ties.
func NewRoster(partners []domain.Partner) Roster {
	r := make(Roster, len(partners))
	copy(r, partners)
	sort.SliceStable(r, func(i, j int) bool { return r[i].Priority < r[j].Priority })
	return r
}

// DefaultRoster returns the reference partner roster.
func DefaultRoster() Roster {
	return NewRoster(defaultPartners)
}

// Lookup returns the partner with the given name.
func (r Roster) Lookup(name string) (domain.Partner, bool) {
	for _, p := range r {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Partner{}, false
}
