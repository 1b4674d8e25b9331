package model

import "time"

// Sector holds the market totals for one sector.
// Y = TotalMarketSize, X = KnownPlayerRevenue, Z = ResidualMarket.
type Sector struct {
	Name                  string
	TotalMarketSize       float64
	KnownPlayerRevenue    float64
	ResidualMarket        float64 // may be negative when X > Y
	KnownCompanies        map[string]float64
	RemainingCompanyCount int     // snapshot taken at registration
	AvgSmallPlayerRevenue float64 // ResidualMarket / RemainingCompanyCount, 0 when count is 0
	RegisteredAt          time.Time
}

// IsKnown reports whether name is one of the sector's major players.
func (s *Sector) IsKnown(name string) bool {
	_, ok := s.KnownCompanies[name]
	return ok
}

// KnownPlayer is a major player with its reported revenue.
type KnownPlayer struct {
	Name    string
	Revenue float64
}

// Composition is the X/Z split of a sector's market, used for analysis views.
type Composition struct {
	Sector        string
	TotalMarket   float64
	KnownRevenue  float64
	ResidualShare float64 // Z / Y
	KnownShare    float64 // X / Y
	Residual      float64
	KnownPlayers  []KnownPlayer // sorted by revenue, largest first
}
