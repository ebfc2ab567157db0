package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

func TestBenchmarkComparator_EvaluateAllocation(t *testing.T) {
	comparator := NewBenchmarkComparator(registry.Default())

	t.Run("pure S&P 500", func(t *testing.T) {
		metrics := comparator.EvaluateAllocation("S&P 500", models.AssetClassAllocation{
			USEquity: decimal.NewFromInt(100),
		})

		assert.True(t, metrics.ExpectedReturn.Equal(decimal.NewFromInt(10)))
		assert.True(t, metrics.Volatility.Equal(decimal.NewFromFloat(15.5)))
		assert.True(t, metrics.MaxDrawdown.Equal(decimal.NewFromInt(50)))
		// (10 - 4) / 15.5 = 0.39 rounded
		assert.True(t, metrics.SharpeRatio.Equal(decimal.NewFromFloat(0.39)),
			"got %s", metrics.SharpeRatio)
	})

	t.Run("60/40 is additive", func(t *testing.T) {
		metrics := comparator.EvaluateAllocation("60/40", models.AssetClassAllocation{
			USEquity: decimal.NewFromInt(60),
			Bonds:    decimal.NewFromInt(40),
		})

		// 0.6*10 + 0.4*4.5 = 7.8
		assert.True(t, metrics.ExpectedReturn.Equal(decimal.NewFromFloat(7.8)),
			"got %s", metrics.ExpectedReturn)
		// 0.6*15.5 + 0.4*5.5 = 11.5
		assert.True(t, metrics.Volatility.Equal(decimal.NewFromFloat(11.5)))
	})

	t.Run("zero allocation has zero metrics", func(t *testing.T) {
		metrics := comparator.EvaluateAllocation("empty", models.AssetClassAllocation{})
		assert.True(t, metrics.ExpectedReturn.IsZero())
		assert.True(t, metrics.Volatility.IsZero())
		assert.True(t, metrics.SharpeRatio.IsZero())
	})
}

func TestBenchmarkComparator_ComparePortfolio(t *testing.T) {
	comparator := NewBenchmarkComparator(registry.Default())

	t.Run("three fixed references", func(t *testing.T) {
		comparison := comparator.ComparePortfolio([]models.Holding{
			holding("VTI", 60000),
			holding("BND", 40000),
		}, 35)

		require.Len(t, comparison.Benchmarks, 3)
		assert.Equal(t, "S&P 500", comparison.Benchmarks[0].Name)
		assert.Equal(t, "60/40 Stocks/Bonds", comparison.Benchmarks[1].Name)
		assert.Equal(t, "Age-Based (65/35)", comparison.Benchmarks[2].Name)

		// Portfolio metrics match the 60/40 reference.
		assert.True(t, comparison.Portfolio.ExpectedReturn.
			Equal(comparison.Benchmarks[1].ExpectedReturn))
	})

	t.Run("age-based stock split", func(t *testing.T) {
		comparison := comparator.ComparePortfolio(nil, 30)
		ageBased := comparison.Benchmarks[2]

		// 70% stock split 70/30 US/international, 30% bonds.
		assert.True(t, ageBased.Allocation.USEquity.Equal(decimal.NewFromInt(49)),
			"got %s", ageBased.Allocation.USEquity)
		assert.True(t, ageBased.Allocation.IntlEquity.Equal(decimal.NewFromInt(21)))
		assert.True(t, ageBased.Allocation.Bonds.Equal(decimal.NewFromInt(30)))
	})

	t.Run("age clamps between 20 and 90 stock", func(t *testing.T) {
		old := comparator.ComparePortfolio(nil, 95)
		assert.Equal(t, "Age-Based (20/80)", old.Benchmarks[2].Name)

		young := comparator.ComparePortfolio(nil, 5)
		assert.Equal(t, "Age-Based (90/10)", young.Benchmarks[2].Name)
	})

	t.Run("empty portfolio yields zero metrics not NaN", func(t *testing.T) {
		comparison := comparator.ComparePortfolio(nil, 40)
		assert.True(t, comparison.Portfolio.ExpectedReturn.IsZero())
		assert.True(t, comparison.Portfolio.SharpeRatio.IsZero())
	})
}
