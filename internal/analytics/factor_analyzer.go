package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

// FactorAnalyzer estimates portfolio factor exposures from per-holding
// heuristic loadings. The loadings are fixed per-asset-class constants with
// per-ticker overrides, not regression output; the tables live in the
// registry so they can be refined without touching this code.
type FactorAnalyzer struct {
	registry *registry.Registry
}

func NewFactorAnalyzer(reg *registry.Registry) *FactorAnalyzer {
	return &FactorAnalyzer{registry: reg}
}

// Interpretation flag thresholds. Market beta is centered on 1, the style
// factors on 0.
var (
	betaFlagThreshold   = decimal.NewFromFloat(0.2)
	factorFlagThreshold = decimal.NewFromFloat(0.25)
)

// RiskLevel buckets an interpretation.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
)

// FactorInterpretation is the human-readable reading of a factor vector.
type FactorInterpretation struct {
	Summary   string    `json:"summary"`
	Details   []string  `json:"details"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// CalculatePortfolioFactorExposures accumulates value-weighted factor
// loadings across the holdings. A portfolio with zero total value returns
// the neutral vector (beta 1, style factors 0) rather than dividing by zero.
func (fa *FactorAnalyzer) CalculatePortfolioFactorExposures(holdings []models.Holding) models.FactorExposures {
	totalValue := models.TotalValue(holdings)
	if totalValue.IsZero() {
		return models.NeutralFactorExposures()
	}

	weighted := models.FactorExposures{}
	for i := range holdings {
		value := holdings[i].Value()
		if value.LessThanOrEqual(decimal.Zero) {
			continue
		}
		loadings := fa.registry.FactorLoadings(holdings[i].NormalizedTicker())
		weighted.MarketBeta = weighted.MarketBeta.Add(loadings.MarketBeta.Mul(value))
		weighted.Size = weighted.Size.Add(loadings.Size.Mul(value))
		weighted.Value = weighted.Value.Add(loadings.Value.Mul(value))
		weighted.Momentum = weighted.Momentum.Add(loadings.Momentum.Mul(value))
		weighted.Quality = weighted.Quality.Add(loadings.Quality.Mul(value))
	}

	return models.FactorExposures{
		MarketBeta: weighted.MarketBeta.Div(totalValue),
		Size:       weighted.Size.Div(totalValue),
		Value:      weighted.Value.Div(totalValue),
		Momentum:   weighted.Momentum.Div(totalValue),
		Quality:    weighted.Quality.Div(totalValue),
	}
}

// GetFactorInterpretation applies the fixed thresholds (market beta: ±0.2
// around 1; other factors: ±0.25 around 0) to produce bullet explanations.
// The detail ordering is fixed: beta, size, value, momentum, quality.
func (fa *FactorAnalyzer) GetFactorInterpretation(exposures models.FactorExposures) FactorInterpretation {
	details := make([]string, 0, 5)
	flagged := 0

	one := decimal.NewFromInt(1)
	betaDelta := exposures.MarketBeta.Sub(one)
	switch {
	case betaDelta.GreaterThan(betaFlagThreshold):
		details = append(details, fmt.Sprintf("Market beta of %s means the portfolio amplifies market moves", exposures.MarketBeta.StringFixed(2)))
		flagged++
	case betaDelta.LessThan(betaFlagThreshold.Neg()):
		details = append(details, fmt.Sprintf("Market beta of %s means the portfolio dampens market moves", exposures.MarketBeta.StringFixed(2)))
		flagged++
	default:
		details = append(details, "Market sensitivity is close to the broad market")
	}

	details = append(details, fa.styleDetail("size", exposures.Size,
		"tilted toward smaller companies", "tilted toward large companies", &flagged))
	details = append(details, fa.styleDetail("value", exposures.Value,
		"tilted toward value stocks", "tilted toward growth stocks", &flagged))
	details = append(details, fa.styleDetail("momentum", exposures.Momentum,
		"overweight recent winners", "leaning against recent performance", &flagged))
	details = append(details, fa.styleDetail("quality", exposures.Quality,
		"tilted toward profitable, stable companies", "exposed to speculative, low-profitability names", &flagged))

	interpretation := FactorInterpretation{Details: details}
	switch {
	case flagged == 0:
		interpretation.RiskLevel = RiskLevelLow
		interpretation.Summary = "Factor exposures are close to market-neutral"
	case flagged <= 2:
		interpretation.RiskLevel = RiskLevelModerate
		interpretation.Summary = fmt.Sprintf("Portfolio carries %d notable factor tilt(s)", flagged)
	default:
		interpretation.RiskLevel = RiskLevelHigh
		interpretation.Summary = fmt.Sprintf("Portfolio carries %d pronounced factor tilts", flagged)
	}

	return interpretation
}

func (fa *FactorAnalyzer) styleDetail(name string, score decimal.Decimal, positive, negative string, flagged *int) string {
	switch {
	case score.GreaterThan(factorFlagThreshold):
		*flagged++
		return fmt.Sprintf("%s exposure of %s: %s", titleCase(name), score.StringFixed(2), positive)
	case score.LessThan(factorFlagThreshold.Neg()):
		*flagged++
		return fmt.Sprintf("%s exposure of %s: %s", titleCase(name), score.StringFixed(2), negative)
	default:
		return fmt.Sprintf("%s exposure of %s is near neutral", titleCase(name), score.StringFixed(2))
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-('a'-'A')) + s[1:]
}
