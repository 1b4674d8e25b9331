package ledger

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"time"

	"MarketSizer/internal/model"
)

var (
	ErrUnknownSector = errors.New("unknown sector")
	ErrInvalidSector = errors.New("invalid sector data")
)

// Ledger owns the per-sector market totals.
// It is not safe for concurrent use.
type Ledger struct {
	sectors map[string]*model.Sector
	now     func() time.Time
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{sectors: make(map[string]*model.Sector), now: time.Now}
}

// RegisterSector computes X, Z and the small-player average for a sector and
// stores it, replacing any previous record of the same name.
//
// remainingCompanyCount is taken as given and frozen into the record; adding
// companies later does not change the average until the sector is registered again.
func (l *Ledger) RegisterSector(name string, totalMarketSize float64, knownCompanies map[string]float64, remainingCompanyCount int) (*model.Sector, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty sector name", ErrInvalidSector)
	}
	if totalMarketSize <= 0 {
		return nil, fmt.Errorf("%w: sector %q: total market size must be positive, got %v", ErrInvalidSector, name, totalMarketSize)
	}
	if remainingCompanyCount < 0 {
		return nil, fmt.Errorf("%w: sector %q: remaining company count must be >= 0, got %d", ErrInvalidSector, name, remainingCompanyCount)
	}

	known := make(map[string]float64, len(knownCompanies))
	var x float64
	for company, revenue := range knownCompanies {
		if revenue < 0 {
			return nil, fmt.Errorf("%w: sector %q: known company %q has negative revenue %v", ErrInvalidSector, name, company, revenue)
		}
		known[company] = revenue
		x += revenue
	}

	z := totalMarketSize - x
	var avg float64
	if remainingCompanyCount > 0 {
		avg = z / float64(remainingCompanyCount)
	}

	s := &model.Sector{
		Name:                  name,
		TotalMarketSize:       totalMarketSize,
		KnownPlayerRevenue:    x,
		ResidualMarket:        z,
		KnownCompanies:        known,
		RemainingCompanyCount: remainingCompanyCount,
		AvgSmallPlayerRevenue: avg,
		RegisteredAt:          l.now(),
	}
	l.sectors[name] = s
	return clone(s), nil
}

// GetSector returns a copy of the record for name. Changing the copy does not
// affect the ledger.
func (l *Ledger) GetSector(name string) (*model.Sector, error) {
	s, ok := l.sectors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSector, name)
	}
	return clone(s), nil
}

func clone(s *model.Sector) *model.Sector {
	c := *s
	c.KnownCompanies = maps.Clone(s.KnownCompanies)
	return &c
}

// Sectors returns the registered sector names in sorted order.
func (l *Ledger) Sectors() []string {
	names := make([]string, 0, len(l.sectors))
	for n := range l.sectors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Composition returns the X/Z split of a sector with its known players,
// largest first.
func (l *Ledger) Composition(name string) (*model.Composition, error) {
	s, ok := l.sectors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSector, name)
	}

	players := make([]model.KnownPlayer, 0, len(s.KnownCompanies))
	for n, r := range s.KnownCompanies {
		players = append(players, model.KnownPlayer{Name: n, Revenue: r})
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Revenue != players[j].Revenue {
			return players[i].Revenue > players[j].Revenue
		}
		return players[i].Name < players[j].Name
	})

	return &model.Composition{
		Sector:        s.Name,
		TotalMarket:   s.TotalMarketSize,
		KnownRevenue:  s.KnownPlayerRevenue,
		Residual:      s.ResidualMarket,
		KnownShare:    s.KnownPlayerRevenue / s.TotalMarketSize,
		ResidualShare: s.ResidualMarket / s.TotalMarketSize,
		KnownPlayers:  players,
	}, nil
}
