package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

// BenchmarkComparator estimates forward-looking risk and return for the
// portfolio and a set of fixed reference allocations.
//
// The model is additive across asset classes: expected return, volatility
// and max drawdown are allocation-weighted sums of the registry's per-class
// capital-market assumptions, with no correlation or covariance term. That
// is a deliberate simplification carried over as swappable configuration,
// not a statistical estimate.
type BenchmarkComparator struct {
	registry   *registry.Registry
	classifier *Classifier
}

func NewBenchmarkComparator(reg *registry.Registry) *BenchmarkComparator {
	return &BenchmarkComparator{
		registry:   reg,
		classifier: NewClassifier(reg),
	}
}

// Age bounds for the "100 minus age" stock percentage.
const (
	minAgeBasedStockPercent = 20
	maxAgeBasedStockPercent = 90
)

// AllocationMetrics carries the estimated metrics for one allocation.
type AllocationMetrics struct {
	Name           string                      `json:"name"`
	Allocation     models.AssetClassAllocation `json:"allocation"`
	ExpectedReturn decimal.Decimal             `json:"expected_return"`
	Volatility     decimal.Decimal             `json:"volatility"`
	SharpeRatio    decimal.Decimal             `json:"sharpe_ratio"`
	MaxDrawdown    decimal.Decimal             `json:"max_drawdown"`
}

// BenchmarkComparison is the portfolio's metrics next to the fixed
// reference allocations.
type BenchmarkComparison struct {
	Portfolio  AllocationMetrics   `json:"portfolio"`
	Benchmarks []AllocationMetrics `json:"benchmarks"`
}

// ComparePortfolio evaluates the portfolio against 100% S&P 500, the
// classic 60/40, and an age-based allocation.
func (bc *BenchmarkComparator) ComparePortfolio(holdings []models.Holding, age int) BenchmarkComparison {
	allocation := bc.classifier.PortfolioAllocation(holdings)
	return BenchmarkComparison{
		Portfolio: bc.EvaluateAllocation("Your Portfolio", allocation),
		Benchmarks: []AllocationMetrics{
			bc.EvaluateAllocation("S&P 500", models.AssetClassAllocation{
				USEquity: decimal.NewFromInt(100),
			}),
			bc.EvaluateAllocation("60/40 Stocks/Bonds", models.AssetClassAllocation{
				USEquity: decimal.NewFromInt(60),
				Bonds:    decimal.NewFromInt(40),
			}),
			bc.ageBasedMetrics(age),
		},
	}
}

// EvaluateAllocation computes the additive risk/return estimates for one
// allocation. A zero allocation yields zero metrics rather than dividing
// by zero in the Sharpe ratio.
func (bc *BenchmarkComparator) EvaluateAllocation(name string, allocation models.AssetClassAllocation) AllocationMetrics {
	metrics := AllocationMetrics{Name: name, Allocation: allocation}
	hundred := decimal.NewFromInt(100)

	for _, class := range models.AllAssetClasses {
		weight := allocation.Get(class).Div(hundred)
		if weight.IsZero() {
			continue
		}
		assumption := bc.registry.ClassAssumption(class)
		metrics.ExpectedReturn = metrics.ExpectedReturn.Add(weight.Mul(assumption.ExpectedReturn))
		metrics.Volatility = metrics.Volatility.Add(weight.Mul(assumption.Volatility))
		metrics.MaxDrawdown = metrics.MaxDrawdown.Add(weight.Mul(assumption.MaxDrawdown))
	}

	if metrics.Volatility.GreaterThan(decimal.Zero) {
		excess := metrics.ExpectedReturn.Sub(bc.registry.RiskFreeRate())
		metrics.SharpeRatio = excess.Div(metrics.Volatility).Round(2)
	}

	return metrics
}

// ageBasedMetrics builds the "100 minus age" reference: stock percentage
// clamp(100-age, 20, 90), split 70/30 US/international, the rest in bonds.
func (bc *BenchmarkComparator) ageBasedMetrics(age int) AllocationMetrics {
	stockPercent := 100 - age
	if stockPercent < minAgeBasedStockPercent {
		stockPercent = minAgeBasedStockPercent
	}
	if stockPercent > maxAgeBasedStockPercent {
		stockPercent = maxAgeBasedStockPercent
	}

	stock := decimal.NewFromInt(int64(stockPercent))
	usEquity := stock.Mul(decimal.NewFromFloat(0.7))
	intlEquity := stock.Sub(usEquity)
	bonds := decimal.NewFromInt(100).Sub(stock)

	return bc.EvaluateAllocation(
		fmt.Sprintf("Age-Based (%d/%d)", stockPercent, 100-stockPercent),
		models.AssetClassAllocation{
			USEquity:   usEquity,
			IntlEquity: intlEquity,
			Bonds:      bonds,
		},
	)
}
