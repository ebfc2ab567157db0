package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

func TestIncomeAnalyzer_AnalyzePortfolioIncome(t *testing.T) {
	analyzer := NewIncomeAnalyzer(registry.Default())

	t.Run("annual income sums value times yield", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioIncome([]models.Holding{
			holding("SCHD", 10000), // 3.45%
			holding("ARKK", 10000), // 0%
		})

		// 10000 * 3.45 / 100 = 345
		assert.True(t, analysis.TotalAnnualIncome.Equal(decimal.NewFromInt(345)),
			"got %s", analysis.TotalAnnualIncome)
		assert.True(t, analysis.MonthlyIncome.Equal(decimal.NewFromFloat(28.75)))
		// Yield over the whole portfolio: 345/20000*100 = 1.725
		assert.True(t, analysis.PortfolioYield.Equal(decimal.NewFromFloat(1.725)))
		assert.Equal(t, YieldCategoryLow, analysis.YieldCategory)
	})

	t.Run("quarterly income splits evenly", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioIncome([]models.Holding{
			holding("SCHD", 40000),
			holding("JEPI", 10000), // monthly payer
		})

		require.Len(t, analysis.QuarterlyIncome, 4)
		quarter := analysis.TotalAnnualIncome.Div(decimal.NewFromInt(4))
		quarterSum := decimal.Zero
		for q, amount := range analysis.QuarterlyIncome {
			assert.True(t, amount.Equal(quarter), "quarter %d: got %s want %s", q, amount, quarter)
			quarterSum = quarterSum.Add(amount)
		}
		assert.True(t, quarterSum.Equal(analysis.TotalAnnualIncome),
			"quarters sum to %s, annual is %s", quarterSum, analysis.TotalAnnualIncome)
	})

	t.Run("monthly payers are flagged and sorted", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioIncome([]models.Holding{
			holding("QYLD", 5000),
			holding("JEPI", 5000),
			holding("VTI", 5000),
		})

		assert.Equal(t, []string{"JEPI", "QYLD"}, analysis.MonthlyPayers)
	})

	t.Run("aristocrat share drives growth potential", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioIncome([]models.Holding{
			holding("SCHD", 60000), // aristocrat
			holding("VTI", 40000),
		})

		assert.True(t, analysis.HasDividendAristocrats)
		assert.True(t, analysis.DividendAristocratPercent.Equal(decimal.NewFromInt(60)),
			"got %s", analysis.DividendAristocratPercent)
		assert.Equal(t, GrowthPotentialHigh, analysis.IncomeGrowthPotential)
	})

	t.Run("no aristocrats means low growth potential", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioIncome([]models.Holding{
			holding("QQQ", 50000),
		})
		assert.False(t, analysis.HasDividendAristocrats)
		assert.Equal(t, GrowthPotentialLow, analysis.IncomeGrowthPotential)
	})

	t.Run("holdings ordered by income descending", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioIncome([]models.Holding{
			holding("VTI", 10000),
			holding("QYLD", 10000),
			holding("SCHD", 10000),
		})

		require.Len(t, analysis.HoldingsByIncome, 3)
		assert.Equal(t, "QYLD", analysis.HoldingsByIncome[0].Ticker)
		for i := 1; i < len(analysis.HoldingsByIncome); i++ {
			assert.True(t, analysis.HoldingsByIncome[i-1].AnnualIncome.
				GreaterThanOrEqual(analysis.HoldingsByIncome[i].AnnualIncome))
		}
	})

	t.Run("empty portfolio is a defined zero result", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioIncome(nil)
		assert.True(t, analysis.TotalAnnualIncome.IsZero())
		assert.True(t, analysis.PortfolioYield.IsZero())
		assert.Equal(t, YieldCategoryNone, analysis.YieldCategory)
		require.Len(t, analysis.QuarterlyIncome, 4)
	})
}

func TestCategorizeYield(t *testing.T) {
	tests := []struct {
		yield    float64
		category YieldCategory
	}{
		{0, YieldCategoryNone},
		{1.5, YieldCategoryLow},
		{2, YieldCategoryModerate},
		{4, YieldCategoryModerate},
		{5, YieldCategoryHigh},
		{6, YieldCategoryHigh},
		{8, YieldCategoryVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.category, categorizeYield(decimal.NewFromFloat(tt.yield)),
			"yield %v", tt.yield)
	}
}
