package model

// PrimaryFactor names what drove a composite weight.
type PrimaryFactor string

const (
	FactorMarketShare PrimaryFactor = "market_share"
	FactorIndicators  PrimaryFactor = "indicators"
)

// WeightBreakdown is the composite weight and the sub-scores behind it.
// Sub-scores are zero when the weight came from a market share override.
type WeightBreakdown struct {
	Total         float64
	PrimaryFactor PrimaryFactor
	EmployeeScore float64
	CapexScore    float64
	AgeScore      float64
}

// Estimate is the result of one revenue estimation.
// Weight is only set for estimated results; reported results carry nil.
type Estimate struct {
	Company    string
	Sector     string
	Revenue    float64
	Source     RevenueSource
	Confidence Confidence
	Weight     *WeightBreakdown
}
