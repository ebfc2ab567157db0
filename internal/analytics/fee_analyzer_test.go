package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

func TestFeeAnalyzer_AnalyzePortfolioFees(t *testing.T) {
	analyzer := NewFeeAnalyzer(registry.Default())

	t.Run("individual stock portfolio has zero fees", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioFees([]models.Holding{
			holding("AAPL", 50000),
		})

		assert.True(t, analysis.TotalAnnualFees.IsZero())
		assert.True(t, analysis.WeightedExpenseRatio.IsZero())
		assert.Equal(t, "A", analysis.Grade.Grade)
		assert.Empty(t, analysis.SavingsOpportunities)
		assert.Empty(t, analysis.TopExpensiveHoldings)
	})

	t.Run("total fees equal sum of value times ratio", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioFees([]models.Holding{
			holding("SPY", 10000), // 0.0945%
			holding("VTI", 10000), // 0.03%
		})

		// 10000*0.0945/100 + 10000*0.03/100 = 9.45 + 3 = 12.45
		assert.True(t, analysis.TotalAnnualFees.Equal(decimal.NewFromFloat(12.45)),
			"got %s", analysis.TotalAnnualFees)
		// 12.45 / 20000 * 100 = 0.06225
		assert.True(t, analysis.WeightedExpenseRatio.Equal(decimal.NewFromFloat(0.06225)),
			"got %s", analysis.WeightedExpenseRatio)
	})

	t.Run("stocks dilute the weighted ratio", func(t *testing.T) {
		fundsOnly := analyzer.AnalyzePortfolioFees([]models.Holding{holding("SPY", 10000)})
		diluted := analyzer.AnalyzePortfolioFees([]models.Holding{
			holding("SPY", 10000),
			holding("AAPL", 30000),
		})
		assert.True(t, diluted.WeightedExpenseRatio.LessThan(fundsOnly.WeightedExpenseRatio))
		// Same dollar fees either way.
		assert.True(t, diluted.TotalAnnualFees.Equal(fundsOnly.TotalAnnualFees))
	})

	t.Run("savings opportunity from substitute table", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioFees([]models.Holding{
			holding("SPY", 100000),
		})

		require.Len(t, analysis.SavingsOpportunities, 1)
		opp := analysis.SavingsOpportunities[0]
		assert.Equal(t, "SPY", opp.Ticker)
		assert.Equal(t, "VOO", opp.AlternativeTicker)
		// 100000 * (0.0945 - 0.03) / 100 = 64.5
		assert.True(t, opp.AnnualSavings.Equal(decimal.NewFromFloat(64.5)), "got %s", opp.AnnualSavings)
		assert.True(t, analysis.PotentialAnnualSavings.Equal(opp.AnnualSavings))
	})

	t.Run("orderings are deterministic", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioFees([]models.Holding{
			holding("VTI", 10000),
			holding("SPY", 10000),
			holding("ARKK", 10000),
			holding("AAPL", 10000),
		})

		// Highest annual fee first.
		for i := 1; i < len(analysis.HoldingsByFee); i++ {
			assert.True(t, analysis.HoldingsByFee[i-1].AnnualFee.
				GreaterThanOrEqual(analysis.HoldingsByFee[i].AnnualFee))
		}
		// Top expensive excludes zero-ratio stocks and caps at three.
		require.Len(t, analysis.TopExpensiveHoldings, 3)
		for _, hf := range analysis.TopExpensiveHoldings {
			assert.True(t, hf.ExpenseRatio.GreaterThan(decimal.Zero))
		}
	})

	t.Run("empty portfolio is a defined zero result", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioFees(nil)
		assert.True(t, analysis.TotalAnnualFees.IsZero())
		assert.True(t, analysis.ThirtyYearFeeDrag.IsZero())
		assert.Equal(t, "A", analysis.Grade.Grade)
	})

	t.Run("fee drag compounds over thirty years", func(t *testing.T) {
		analysis := analyzer.AnalyzePortfolioFees([]models.Holding{
			holding("ARKK", 100000), // 0.75%
		})
		// 100000 * (1.07^30 - (1.07-0.0075)^30) is roughly 147k
		assert.True(t, analysis.ThirtyYearFeeDrag.GreaterThan(decimal.NewFromInt(100000)))
		assert.True(t, analysis.ThirtyYearFeeDrag.LessThan(decimal.NewFromInt(200000)))
		assert.Contains(t, FormatFeeDrag(analysis.ThirtyYearFeeDrag), "over 30 years")
	})
}

func TestGetExpenseRatioGrade(t *testing.T) {
	tests := []struct {
		ratio float64
		grade string
	}{
		{0, "A"},
		{0.05, "A"},
		{0.06, "B"},
		{0.20, "B"},
		{0.35, "C"},
		{0.75, "D"},
		{1.01, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.grade, GetExpenseRatioGrade(decimal.NewFromFloat(tt.ratio)).Grade,
			"ratio %v", tt.ratio)
	}

	t.Run("monotonic", func(t *testing.T) {
		previous := "A"
		for ratio := 0.0; ratio <= 2.0; ratio += 0.01 {
			grade := GetExpenseRatioGrade(decimal.NewFromFloat(ratio)).Grade
			assert.GreaterOrEqual(t, grade, previous, "ratio %v", ratio)
			previous = grade
		}
	})
}
