package calculator

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

func position(ticker string, value, costBasis float64) models.Holding {
	return models.Holding{
		Ticker:       ticker,
		CurrentValue: decimal.NewFromFloat(value),
		CostBasis:    decimal.NewFromFloat(costBasis),
	}
}

func TestRebalancingCalculator_CalculateRebalancingTrades(t *testing.T) {
	calc := NewRebalancingCalculator(registry.Default())

	t.Run("60/40 toward 50/50", func(t *testing.T) {
		holdings := []models.Holding{
			position("VTI", 60000, 60000),
			position("BND", 40000, 40000),
		}
		target := models.TargetAllocation{
			USEquity: decimal.NewFromInt(50),
			Bonds:    decimal.NewFromInt(50),
		}

		preview := calc.CalculateRebalancingTrades(holdings, target, DefaultRebalancingOptions())

		assert.True(t, preview.RebalancingNeeded)
		require.Len(t, preview.Trades, 2)

		sell := preview.Trades[0]
		assert.Equal(t, models.TradeActionSell, sell.Action)
		assert.Equal(t, "VTI", sell.Ticker)
		assert.Equal(t, models.AssetClassUSEquity, sell.AssetClass)
		assert.True(t, sell.Amount.Equal(decimal.NewFromInt(10000)), "got %s", sell.Amount)

		buy := preview.Trades[1]
		assert.Equal(t, models.TradeActionBuy, buy.Action)
		assert.Equal(t, "BND", buy.Ticker)
		assert.Equal(t, models.AssetClassBonds, buy.AssetClass)
		assert.True(t, buy.Amount.Equal(decimal.NewFromInt(10000)))

		assert.True(t, preview.Summary.NetCashFlow.IsZero(),
			"sells fund buys, got %s", preview.Summary.NetCashFlow)
	})

	t.Run("within threshold means no trades", func(t *testing.T) {
		holdings := []models.Holding{
			position("VTI", 62000, 62000),
			position("BND", 38000, 38000),
		}
		target := models.TargetAllocation{
			USEquity: decimal.NewFromInt(60),
			Bonds:    decimal.NewFromInt(40),
		}

		preview := calc.CalculateRebalancingTrades(holdings, target, DefaultRebalancingOptions())

		assert.False(t, preview.RebalancingNeeded)
		assert.Empty(t, preview.Trades)
		require.NotEmpty(t, preview.Recommendations)
		assert.Contains(t, preview.Recommendations[0], "within the drift threshold")
	})

	t.Run("drift rows cover every core class", func(t *testing.T) {
		holdings := []models.Holding{
			position("VTI", 60000, 60000),
			position("BND", 40000, 40000),
		}
		target := models.TargetAllocation{
			USEquity: decimal.NewFromInt(50),
			Bonds:    decimal.NewFromInt(50),
		}

		preview := calc.CalculateRebalancingTrades(holdings, target, DefaultRebalancingOptions())

		require.Len(t, preview.Drifts, len(models.CoreAssetClasses))
		byClass := make(map[models.AssetClass]models.ClassDrift)
		for _, drift := range preview.Drifts {
			byClass[drift.AssetClass] = drift
		}

		us := byClass[models.AssetClassUSEquity]
		assert.True(t, us.Drift.Equal(decimal.NewFromInt(10)), "got %s", us.Drift)
		assert.True(t, us.AdjustmentUSD.Equal(decimal.NewFromInt(10000)))
		assert.True(t, us.Actionable)

		bonds := byClass[models.AssetClassBonds]
		assert.True(t, bonds.Drift.Equal(decimal.NewFromInt(-10)))
		assert.True(t, bonds.Actionable)

		assert.False(t, byClass[models.AssetClassCrypto].Actionable)
	})

	t.Run("sell priority and wash-sale flag", func(t *testing.T) {
		spy := position("SPY", 30000, 30000)
		spy.AccountType = models.AccountTypeTaxAdvantaged
		voo := position("VOO", 30000, 35000)
		voo.AccountType = models.AccountTypeTaxable
		vti := position("VTI", 30000, 20000)
		vti.AccountType = models.AccountTypeTaxable
		holdings := []models.Holding{vti, voo, spy, position("BND", 10000, 10000)}

		target := models.TargetAllocation{
			USEquity: decimal.NewFromInt(50),
			Bonds:    decimal.NewFromInt(50),
		}

		preview := calc.CalculateRebalancingTrades(holdings, target, DefaultRebalancingOptions())

		// 40% over target means $40,000 of sells: the tax-advantaged
		// position fully, then the loss position for the remainder.
		require.GreaterOrEqual(t, len(preview.Trades), 3)
		assert.Equal(t, "SPY", preview.Trades[0].Ticker)
		assert.True(t, preview.Trades[0].Amount.Equal(decimal.NewFromInt(30000)))

		assert.Equal(t, "VOO", preview.Trades[1].Ticker)
		assert.True(t, preview.Trades[1].Amount.Equal(decimal.NewFromInt(10000)))
		assert.True(t, preview.Trades[1].UnrealizedGain.Equal(decimal.NewFromFloat(-1666.67)),
			"got %s", preview.Trades[1].UnrealizedGain)
		assert.True(t, preview.Trades[1].WashSaleRisk)

		assert.Equal(t, 1, preview.Summary.WashSaleRisks)
		found := false
		for _, warning := range preview.Warnings {
			if strings.Contains(warning, "wash sale") {
				found = true
			}
		}
		assert.True(t, found, "expected a wash-sale warning, got %v", preview.Warnings)
	})

	t.Run("tax-aware off ignores losses and wash sales", func(t *testing.T) {
		spy := position("SPY", 30000, 35000)
		vti := position("VTI", 40000, 30000)
		holdings := []models.Holding{spy, vti, position("BND", 30000, 30000)}
		target := models.TargetAllocation{
			USEquity: decimal.NewFromInt(40),
			Bonds:    decimal.NewFromInt(60),
		}

		aware := calc.CalculateRebalancingTrades(holdings, target, DefaultRebalancingOptions())
		require.NotEmpty(t, aware.Trades)
		assert.Equal(t, "SPY", aware.Trades[0].Ticker)
		assert.True(t, aware.Trades[0].WashSaleRisk)
		assert.Equal(t, 1, aware.Summary.WashSaleRisks)

		options := DefaultRebalancingOptions()
		options.TaxAware = false
		unaware := calc.CalculateRebalancingTrades(holdings, target, options)

		// Without tax awareness the largest position sells first and no
		// wash-sale flags are raised.
		require.NotEmpty(t, unaware.Trades)
		assert.Equal(t, "VTI", unaware.Trades[0].Ticker)
		for _, trade := range unaware.Trades {
			assert.False(t, trade.WashSaleRisk, "trade %s flagged", trade.Ticker)
		}
		assert.Equal(t, 0, unaware.Summary.WashSaleRisks)
	})

	t.Run("minimum trade amount skips small trades", func(t *testing.T) {
		holdings := []models.Holding{
			position("VTI", 60000, 60000),
			position("BND", 40000, 40000),
		}
		target := models.TargetAllocation{
			USEquity: decimal.NewFromInt(50),
			Bonds:    decimal.NewFromInt(50),
		}
		options := DefaultRebalancingOptions()
		options.MinTradeAmount = decimal.NewFromInt(20000)

		preview := calc.CalculateRebalancingTrades(holdings, target, options)

		assert.Empty(t, preview.Trades)
		assert.False(t, preview.RebalancingNeeded)
	})

	t.Run("tax summary splits gain types", func(t *testing.T) {
		vti := position("VTI", 60000, 40000)
		vti.LongTermHolding = true
		qqq := position("QQQ", 40000, 45000)
		holdings := []models.Holding{vti, qqq}

		target := models.TargetAllocation{Cash: decimal.NewFromInt(100)}

		preview := calc.CalculateRebalancingTrades(holdings, target, DefaultRebalancingOptions())

		// The loss position sells first, then the gain position.
		require.GreaterOrEqual(t, len(preview.Trades), 2)
		assert.Equal(t, "QQQ", preview.Trades[0].Ticker)
		assert.Equal(t, "VTI", preview.Trades[1].Ticker)
		assert.Equal(t, models.GainTypeLongTerm, preview.Trades[1].GainType)

		summary := preview.Summary
		assert.True(t, summary.LongTermGains.Equal(decimal.NewFromInt(20000)),
			"got %s", summary.LongTermGains)
		assert.True(t, summary.RealizedLosses.Equal(decimal.NewFromInt(5000)))
		// 20000 * 0.15 long-term.
		assert.True(t, summary.EstimatedTaxes.Equal(decimal.NewFromInt(3000)),
			"got %s", summary.EstimatedTaxes)
		// 5000 * 0.20 loss harvest.
		assert.True(t, summary.EstimatedTaxSavings.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("short-term gains taxed at the higher rate", func(t *testing.T) {
		vti := position("VTI", 50000, 40000)
		holdings := []models.Holding{vti, position("BND", 50000, 50000)}

		target := models.TargetAllocation{
			USEquity: decimal.NewFromInt(30),
			Bonds:    decimal.NewFromInt(70),
		}

		preview := calc.CalculateRebalancingTrades(holdings, target, DefaultRebalancingOptions())

		require.NotEmpty(t, preview.Trades)
		sell := preview.Trades[0]
		assert.Equal(t, models.GainTypeShortTerm, sell.GainType)
		// $20,000 sold from a position carrying a $10,000 gain.
		assert.True(t, sell.UnrealizedGain.Equal(decimal.NewFromInt(4000)),
			"got %s", sell.UnrealizedGain)
		// 4000 * 0.22.
		assert.True(t, preview.Summary.EstimatedTaxes.Equal(decimal.NewFromInt(880)),
			"got %s", preview.Summary.EstimatedTaxes)
	})

	t.Run("trades grouped by account", func(t *testing.T) {
		vti := position("VTI", 60000, 60000)
		vti.AccountName = "Brokerage"
		holdings := []models.Holding{vti, position("BND", 40000, 40000)}

		target := models.TargetAllocation{
			USEquity: decimal.NewFromInt(50),
			Bonds:    decimal.NewFromInt(50),
		}

		preview := calc.CalculateRebalancingTrades(holdings, target, DefaultRebalancingOptions())

		brokerage, ok := preview.Summary.TradesByAccount["Brokerage"]
		require.True(t, ok)
		assert.True(t, brokerage.SellAmount.Equal(decimal.NewFromInt(10000)))
		assert.Equal(t, 1, brokerage.TradeCount)

		// Buy trades carry no holding, so they land in the unassigned bucket.
		unassigned, ok := preview.Summary.TradesByAccount["unassigned"]
		require.True(t, ok)
		assert.True(t, unassigned.BuyAmount.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("high target concentration warned", func(t *testing.T) {
		holdings := []models.Holding{position("VTI", 100000, 100000)}
		target := models.TargetAllocation{
			USEquity: decimal.NewFromInt(80),
			Crypto:   decimal.NewFromInt(20),
		}

		preview := calc.CalculateRebalancingTrades(holdings, target, DefaultRebalancingOptions())

		require.NotEmpty(t, preview.Warnings)
		joined := ""
		for _, warning := range preview.Warnings {
			joined += warning + "\n"
		}
		assert.Contains(t, joined, "High concentration")
		assert.Contains(t, joined, "Crypto target")
	})

	t.Run("empty portfolio", func(t *testing.T) {
		target := models.TargetAllocation{USEquity: decimal.NewFromInt(100)}

		preview := calc.CalculateRebalancingTrades(nil, target, DefaultRebalancingOptions())

		assert.Empty(t, preview.Trades)
		assert.False(t, preview.RebalancingNeeded)
		assert.True(t, preview.TotalValue.IsZero())
		require.NotEmpty(t, preview.Recommendations)
		assert.Contains(t, preview.Recommendations[0], "Add holdings")
	})
}
