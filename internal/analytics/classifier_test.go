package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

func holding(ticker string, value float64) models.Holding {
	return models.Holding{
		Ticker:       ticker,
		CurrentValue: decimal.NewFromFloat(value),
	}
}

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier(registry.Default())

	tests := []struct {
		ticker string
		class  models.AssetClass
	}{
		{"VTI", models.AssetClassUSEquity},
		{"VXUS", models.AssetClassIntlEquity},
		{"bnd", models.AssetClassBonds},
		{"ETH", models.AssetClassCrypto},
		{"BIL", models.AssetClassCash},
		{"TSLA", models.AssetClassUSEquity}, // unmatched defaults to US equity
	}
	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			assert.Equal(t, tt.class, classifier.Classify(tt.ticker))
		})
	}
}

func TestClassifier_DecomposeFundHolding(t *testing.T) {
	classifier := NewClassifier(registry.Default())

	t.Run("multi-asset fund splits by table", func(t *testing.T) {
		parts := classifier.DecomposeFundHolding("VT", decimal.NewFromInt(10000))
		require.Len(t, parts, 2)
		assert.True(t, parts[models.AssetClassUSEquity].Equal(decimal.NewFromInt(6000)),
			"got %s", parts[models.AssetClassUSEquity])
		assert.True(t, parts[models.AssetClassIntlEquity].Equal(decimal.NewFromInt(4000)))
	})

	t.Run("single-class fund keeps full value", func(t *testing.T) {
		parts := classifier.DecomposeFundHolding("BND", decimal.NewFromInt(5000))
		require.Len(t, parts, 1)
		assert.True(t, parts[models.AssetClassBonds].Equal(decimal.NewFromInt(5000)))
	})

	t.Run("unknown ticker falls back to classify", func(t *testing.T) {
		parts := classifier.DecomposeFundHolding("AAPL", decimal.NewFromInt(5000))
		require.Len(t, parts, 1)
		assert.True(t, parts[models.AssetClassUSEquity].Equal(decimal.NewFromInt(5000)))
	})

	t.Run("zero value is empty", func(t *testing.T) {
		assert.Empty(t, classifier.DecomposeFundHolding("VT", decimal.Zero))
	})
}

func TestClassifier_PortfolioAllocation(t *testing.T) {
	classifier := NewClassifier(registry.Default())

	t.Run("percentages sum to 100", func(t *testing.T) {
		allocation := classifier.PortfolioAllocation([]models.Holding{
			holding("VTI", 50000),
			holding("VXUS", 20000),
			holding("BND", 20000),
			holding("VT", 10000),
		})

		sum := allocation.Sum()
		diff := sum.Sub(decimal.NewFromInt(100)).Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)), "sum %s", sum)

		// VTI 50000 + VT's US slice 6000 = 56%
		assert.True(t, allocation.USEquity.Equal(decimal.NewFromInt(56)), "got %s", allocation.USEquity)
		assert.True(t, allocation.IntlEquity.Equal(decimal.NewFromInt(24)))
		assert.True(t, allocation.Bonds.Equal(decimal.NewFromInt(20)))
	})

	t.Run("empty portfolio is zero allocation", func(t *testing.T) {
		allocation := classifier.PortfolioAllocation(nil)
		assert.True(t, allocation.Sum().IsZero())
	})

	t.Run("zero-value holdings are skipped", func(t *testing.T) {
		allocation := classifier.PortfolioAllocation([]models.Holding{
			holding("VTI", 0),
			holding("BND", 1000),
		})
		assert.True(t, allocation.Bonds.Equal(decimal.NewFromInt(100)))
	})

	t.Run("idempotent", func(t *testing.T) {
		holdings := []models.Holding{holding("VTI", 60000), holding("BND", 40000)}
		first := classifier.PortfolioAllocation(holdings)
		second := classifier.PortfolioAllocation(holdings)
		assert.Equal(t, first, second)
	})
}

func TestCoreClass(t *testing.T) {
	assert.Equal(t, models.AssetClassUSEquity, CoreClass(models.AssetClassREITs))
	assert.Equal(t, models.AssetClassUSEquity, CoreClass(models.AssetClassGold))
	assert.Equal(t, models.AssetClassUSEquity, CoreClass(models.AssetClassAlternatives))
	assert.Equal(t, models.AssetClassBonds, CoreClass(models.AssetClassBonds))
	assert.Equal(t, models.AssetClassCrypto, CoreClass(models.AssetClassCrypto))
}
