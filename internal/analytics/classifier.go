package analytics

import (
	"github.com/shopspring/decimal"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

// Classifier maps tickers to asset classes and decomposes multi-asset funds
// into per-class dollar amounts. All lookups are case-insensitive and backed
// by the static registry.
type Classifier struct {
	registry *registry.Registry
}

func NewClassifier(reg *registry.Registry) *Classifier {
	return &Classifier{registry: reg}
}

// Classify returns the asset class for a ticker. Tickers absent from every
// registry table classify as US equity; that is the documented default for
// individual stocks, not an error.
func (c *Classifier) Classify(ticker string) models.AssetClass {
	return c.registry.AssetClass(ticker)
}

// DecomposeFundHolding splits a holding's dollar value across asset classes.
// Known multi-asset funds split per their fixed decomposition table; any
// other ticker degenerates to 100% of value in its Classify result.
func (c *Classifier) DecomposeFundHolding(ticker string, value decimal.Decimal) map[models.AssetClass]decimal.Decimal {
	result := make(map[models.AssetClass]decimal.Decimal)
	if value.LessThanOrEqual(decimal.Zero) {
		return result
	}

	fund, ok := c.registry.Lookup(ticker)
	if !ok || len(fund.Decomposition) == 0 {
		result[c.Classify(ticker)] = value
		return result
	}

	hundred := decimal.NewFromInt(100)
	for class, pct := range fund.Decomposition {
		result[class] = value.Mul(pct).Div(hundred)
	}
	return result
}

// PortfolioAllocation computes the percentage allocation of a holdings list
// across all eight asset classes, decomposing multi-asset funds. Populated
// percentages sum to 100; an empty or zero-value portfolio yields the zero
// allocation.
func (c *Classifier) PortfolioAllocation(holdings []models.Holding) models.AssetClassAllocation {
	allocation := models.AssetClassAllocation{}

	dollars := make(map[models.AssetClass]decimal.Decimal)
	total := decimal.Zero
	for i := range holdings {
		value := holdings[i].Value()
		if value.LessThanOrEqual(decimal.Zero) {
			continue
		}
		for class, amount := range c.DecomposeFundHolding(holdings[i].NormalizedTicker(), value) {
			dollars[class] = dollars[class].Add(amount)
			total = total.Add(amount)
		}
	}

	if total.IsZero() {
		return allocation
	}

	hundred := decimal.NewFromInt(100)
	for class, amount := range dollars {
		allocation.Add(class, amount.Div(total).Mul(hundred))
	}
	return allocation
}

// CoreClass maps any asset class onto the five-class view used for
// rebalancing. REITs, gold and alternatives count as US equity.
func CoreClass(class models.AssetClass) models.AssetClass {
	switch class {
	case models.AssetClassREITs, models.AssetClassGold, models.AssetClassAlternatives:
		return models.AssetClassUSEquity
	default:
		return class
	}
}
