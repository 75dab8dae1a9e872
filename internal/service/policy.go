package service

import "math"

// Stock status labels derived from days of cover
const (
	StockCritical    = "critical"
	StockLow         = "low"
	StockHealthy     = "healthy"
	StockOverstocked = "overstocked"
)

// CoveragePolicy classifies a stock level by its days of cover.
type CoveragePolicy struct {
	CriticalBelow  float64
	LowBelow       float64
	OverstockAbove float64
}

// Two thresholds deliberately coexist: reorder screens flag "low" below 14
// days of cover, while dealer-facing alerts only fire below 7. Keep them as
// separate policies; merging would silently change behavior at call sites.
var (
	DealerReorderPolicy = CoveragePolicy{CriticalBelow: 3, LowBelow: 14, OverstockAbove: 90}
	AlertPolicy         = CoveragePolicy{CriticalBelow: 3, LowBelow: 7, OverstockAbove: 90}
)

// Classify maps days of cover to a stock status label
func (p CoveragePolicy) Classify(daysOfCover float64) string {
	switch {
	case daysOfCover < p.CriticalBelow:
		return StockCritical
	case daysOfCover < p.LowBelow:
		return StockLow
	case daysOfCover > p.OverstockAbove:
		return StockOverstocked
	default:
		return StockHealthy
	}
}

// RevenueAtRisk estimates revenue lost if a level depletes before the
// horizon, using a linear-depletion model: daily demand is approximated
// from current stock and cover, not a real forecast.
func RevenueAtRisk(currentStock int, daysOfCover, horizonDays, unitPrice float64) float64 {
	dailyDemand := float64(currentStock) / math.Max(daysOfCover, 0.1)
	daysOut := math.Max(0, horizonDays-daysOfCover)
	return dailyDemand * daysOut * unitPrice
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
