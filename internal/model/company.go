package model

// RevenueSource tells how a company's revenue was obtained.
type RevenueSource string

const (
	SourceUnset     RevenueSource = ""
	SourceReported  RevenueSource = "reported"
	SourceEstimated RevenueSource = "estimated"
)

// Confidence is a coarse label attached to a revenue figure.
type Confidence string

const (
	ConfidenceUnset  Confidence = ""
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// Indicators are the per-company inputs to the weighting model.
type Indicators struct {
	Employees           int
	YearsEstablished    int
	Capex               float64
	MarketShareEstimate *float64 // 0.0 ~ 1.0, nil when not supplied
}

// Company is a company under study together with its estimation result.
type Company struct {
	Name   string
	Sector string
	Indicators

	Revenue       *float64 // nil until estimated or reported
	RevenueSource RevenueSource
	Confidence    Confidence
}

// HasRevenue reports whether a revenue has been recorded.
func (c *Company) HasRevenue() bool { return c.Revenue != nil }

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 { return &v }
