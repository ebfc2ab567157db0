package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"maven-analytics/internal/analytics"
	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

// Tax rate constants used for the advisory estimates in the trade summary.
var (
	shortTermTaxRate  = decimal.NewFromFloat(0.22)
	longTermTaxRate   = decimal.NewFromFloat(0.15)
	lossHarvestRate   = decimal.NewFromFloat(0.20)
	concentrationWarn = decimal.NewFromInt(70)
	cryptoTargetWarn  = decimal.NewFromInt(10)
)

// defaultBuyTickers maps each core class to the low-cost fund suggested for
// buy trades when the class is under target.
var defaultBuyTickers = map[models.AssetClass]string{
	models.AssetClassUSEquity:   "VTI",
	models.AssetClassIntlEquity: "VXUS",
	models.AssetClassBonds:      "BND",
	models.AssetClassCrypto:     "IBIT",
	models.AssetClassCash:       "SGOV",
}

// RebalancingOptions tunes trade generation. TaxAware gates the loss-first
// sell ordering and wash-sale flagging; PreferTaxAdvantaged gates the
// account-type ordering.
type RebalancingOptions struct {
	DriftThreshold      decimal.Decimal `json:"drift_threshold"`
	TaxAware            bool            `json:"tax_aware"`
	MinTradeAmount      decimal.Decimal `json:"min_trade_amount"`
	PreferTaxAdvantaged bool            `json:"prefer_tax_advantaged"`
}

// DefaultRebalancingOptions returns the advisory defaults: 5% drift
// threshold, $100 minimum trade, tax-aware ordering enabled.
func DefaultRebalancingOptions() RebalancingOptions {
	return RebalancingOptions{
		DriftThreshold:      decimal.NewFromInt(5),
		TaxAware:            true,
		MinTradeAmount:      decimal.NewFromInt(100),
		PreferTaxAdvantaged: true,
	}
}

// RebalancingCalculator generates advisory buy/sell trades moving a
// portfolio toward a target allocation.
type RebalancingCalculator struct {
	registry   *registry.Registry
	classifier *analytics.Classifier
}

func NewRebalancingCalculator(reg *registry.Registry) *RebalancingCalculator {
	return &RebalancingCalculator{
		registry:   reg,
		classifier: analytics.NewClassifier(reg),
	}
}

// classPosition is one holding bucketed into its dominant core class for
// sell selection.
type classPosition struct {
	holding *models.Holding
	value   decimal.Decimal
	gain    decimal.Decimal
}

// CalculateRebalancingTrades computes the drift per core asset class and
// generates sell trades for over-target classes and buy trades for
// under-target classes. All sells precede all buys in the returned list;
// sells fund buys. When every drift is inside the threshold the preview
// carries an empty trade list and RebalancingNeeded=false.
func (rc *RebalancingCalculator) CalculateRebalancingTrades(
	holdings []models.Holding,
	target models.TargetAllocation,
	options RebalancingOptions,
) models.RebalancingPreview {
	if options.DriftThreshold.LessThan(decimal.Zero) {
		options.DriftThreshold = decimal.Zero
	}
	if options.MinTradeAmount.LessThan(decimal.Zero) {
		options.MinTradeAmount = decimal.Zero
	}

	preview := models.RebalancingPreview{
		Trades:           make([]models.RebalancingTrade, 0),
		Drifts:           make([]models.ClassDrift, 0, len(models.CoreAssetClasses)),
		TargetAllocation: target,
		Warnings:         make([]string, 0),
		Recommendations:  make([]string, 0),
	}
	preview.Summary.TradesByAccount = make(map[string]models.AccountTradeSummary)

	totalValue := models.TotalValue(holdings)
	preview.TotalValue = totalValue

	allocation := rc.classifier.PortfolioAllocation(holdings)
	preview.CurrentAllocation = allocation.CoreAllocation()

	hundred := decimal.NewFromInt(100)
	for _, class := range models.CoreAssetClasses {
		current := preview.CurrentAllocation.Get(class)
		drift := current.Sub(target.Get(class))
		classDrift := models.ClassDrift{
			AssetClass:     class,
			CurrentPercent: current,
			TargetPercent:  target.Get(class),
			Drift:          drift,
			AdjustmentUSD:  drift.Abs().Mul(totalValue).Div(hundred),
			Actionable:     drift.Abs().GreaterThanOrEqual(options.DriftThreshold) && !drift.IsZero(),
		}
		preview.Drifts = append(preview.Drifts, classDrift)
	}

	if totalValue.LessThanOrEqual(decimal.Zero) {
		preview.Recommendations = append(preview.Recommendations,
			"Add holdings to the portfolio before rebalancing.")
		return preview
	}

	positions := rc.bucketByClass(holdings)

	sells := make([]models.RebalancingTrade, 0)
	buys := make([]models.RebalancingTrade, 0)
	for _, drift := range preview.Drifts {
		if !drift.Actionable {
			continue
		}
		if drift.Drift.GreaterThan(decimal.Zero) {
			sells = append(sells, rc.sellTrades(drift, positions[drift.AssetClass], options)...)
		} else {
			if trade, ok := rc.buyTrade(drift, options); ok {
				buys = append(buys, trade)
			}
		}
	}

	preview.Trades = append(preview.Trades, sells...)
	preview.Trades = append(preview.Trades, buys...)
	preview.RebalancingNeeded = len(preview.Trades) > 0

	rc.summarize(&preview)
	rc.advise(&preview, target, options)

	return preview
}

// bucketByClass assigns each holding to its dominant core class. Fund
// decompositions are intentionally ignored here: trades operate on whole
// positions, not on slices of a multi-asset fund.
func (rc *RebalancingCalculator) bucketByClass(holdings []models.Holding) map[models.AssetClass][]classPosition {
	buckets := make(map[models.AssetClass][]classPosition)
	for i := range holdings {
		value := holdings[i].Value()
		if value.LessThanOrEqual(decimal.Zero) {
			continue
		}
		class := analytics.CoreClass(rc.classifier.Classify(holdings[i].NormalizedTicker()))
		buckets[class] = append(buckets[class], classPosition{
			holding: &holdings[i],
			value:   value,
			gain:    holdings[i].UnrealizedGain(),
		})
	}
	return buckets
}

// sellTrades selects positions to sell within one over-target class. The
// priority order is tax-advantaged accounts (when preferred), then
// unrealized-loss positions (when tax-aware), then largest value; ties break
// on ticker.
func (rc *RebalancingCalculator) sellTrades(
	drift models.ClassDrift,
	positions []classPosition,
	options RebalancingOptions,
) []models.RebalancingTrade {
	ordered := make([]classPosition, len(positions))
	copy(ordered, positions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if options.PreferTaxAdvantaged {
			iAdv := ordered[i].holding.AccountType == models.AccountTypeTaxAdvantaged
			jAdv := ordered[j].holding.AccountType == models.AccountTypeTaxAdvantaged
			if iAdv != jAdv {
				return iAdv
			}
		}
		if options.TaxAware {
			iLoss := ordered[i].gain.LessThan(decimal.Zero)
			jLoss := ordered[j].gain.LessThan(decimal.Zero)
			if iLoss != jLoss {
				return iLoss
			}
		}
		if !ordered[i].value.Equal(ordered[j].value) {
			return ordered[i].value.GreaterThan(ordered[j].value)
		}
		return ordered[i].holding.NormalizedTicker() < ordered[j].holding.NormalizedTicker()
	})

	trades := make([]models.RebalancingTrade, 0)
	remaining := drift.AdjustmentUSD
	for _, pos := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		amount := decimal.Min(remaining, pos.value)
		if amount.LessThan(options.MinTradeAmount) {
			continue
		}

		// Attribute the unrealized gain proportionally to the sold slice.
		gain := pos.gain.Mul(amount).Div(pos.value)
		trade := models.RebalancingTrade{
			Ticker:         pos.holding.NormalizedTicker(),
			Action:         models.TradeActionSell,
			Amount:         amount.Round(2),
			CurrentPrice:   pos.holding.CurrentPrice,
			AssetClass:     drift.AssetClass,
			UnrealizedGain: gain.Round(2),
			AccountName:    pos.holding.AccountName,
			AccountType:    pos.holding.AccountType,
			Reason: fmt.Sprintf("Reduce %s from %s%% toward %s%% target",
				drift.AssetClass,
				drift.CurrentPercent.Round(1).String(),
				drift.TargetPercent.Round(1).String()),
		}
		if pos.holding.CurrentPrice.GreaterThan(decimal.Zero) {
			trade.Shares = amount.Div(pos.holding.CurrentPrice).Round(4)
		}
		if pos.holding.LongTermHolding {
			trade.GainType = models.GainTypeLongTerm
		} else {
			trade.GainType = models.GainTypeShortTerm
		}
		if options.TaxAware && gain.LessThan(decimal.Zero) && rc.registry.HasIdenticalSubstitute(trade.Ticker) {
			trade.WashSaleRisk = true
		}

		trades = append(trades, trade)
		remaining = remaining.Sub(amount)
	}
	return trades
}

// buyTrade emits one buy per under-target class, directed at the class's
// suggested low-cost fund.
func (rc *RebalancingCalculator) buyTrade(drift models.ClassDrift, options RebalancingOptions) (models.RebalancingTrade, bool) {
	if drift.AdjustmentUSD.LessThan(options.MinTradeAmount) {
		return models.RebalancingTrade{}, false
	}
	return models.RebalancingTrade{
		Ticker:     defaultBuyTickers[drift.AssetClass],
		Action:     models.TradeActionBuy,
		Amount:     drift.AdjustmentUSD.Round(2),
		AssetClass: drift.AssetClass,
		Reason: fmt.Sprintf("Increase %s from %s%% toward %s%% target",
			drift.AssetClass,
			drift.CurrentPercent.Round(1).String(),
			drift.TargetPercent.Round(1).String()),
	}, true
}

// summarize aggregates cash flow, tax estimates and per-account totals.
// NetCashFlow is reported as buys minus sells; sells are meant to fund
// buys, so it approaches zero unless trades were skipped by the minimum
// amount or external cash is added.
func (rc *RebalancingCalculator) summarize(preview *models.RebalancingPreview) {
	summary := &preview.Summary
	for _, trade := range preview.Trades {
		account := trade.AccountName
		if account == "" {
			account = "unassigned"
		}
		byAccount := summary.TradesByAccount[account]
		byAccount.AccountName = account
		byAccount.TradeCount++

		switch trade.Action {
		case models.TradeActionSell:
			summary.TotalSellAmount = summary.TotalSellAmount.Add(trade.Amount)
			byAccount.SellAmount = byAccount.SellAmount.Add(trade.Amount)

			switch {
			case trade.UnrealizedGain.LessThan(decimal.Zero):
				summary.RealizedLosses = summary.RealizedLosses.Add(trade.UnrealizedGain.Abs())
			case trade.GainType == models.GainTypeShortTerm:
				summary.ShortTermGains = summary.ShortTermGains.Add(trade.UnrealizedGain)
			default:
				summary.LongTermGains = summary.LongTermGains.Add(trade.UnrealizedGain)
			}
			if trade.WashSaleRisk {
				summary.WashSaleRisks++
			}
		case models.TradeActionBuy:
			summary.TotalBuyAmount = summary.TotalBuyAmount.Add(trade.Amount)
			byAccount.BuyAmount = byAccount.BuyAmount.Add(trade.Amount)
		}
		summary.TradesByAccount[account] = byAccount
	}

	summary.NetCashFlow = summary.TotalBuyAmount.Sub(summary.TotalSellAmount)
	summary.EstimatedTaxes = summary.ShortTermGains.Mul(shortTermTaxRate).
		Add(summary.LongTermGains.Mul(longTermTaxRate)).Round(2)
	summary.EstimatedTaxSavings = summary.RealizedLosses.Mul(lossHarvestRate).Round(2)
}

// advise attaches the fixed-rule warnings and recommendations.
func (rc *RebalancingCalculator) advise(preview *models.RebalancingPreview, target models.TargetAllocation, options RebalancingOptions) {
	for _, class := range models.CoreAssetClasses {
		if target.Get(class).GreaterThan(concentrationWarn) {
			preview.Warnings = append(preview.Warnings, fmt.Sprintf(
				"High concentration remains after rebalance: %s target is %s%%",
				class, target.Get(class).Round(1).String()))
		}
	}
	if target.Crypto.GreaterThan(cryptoTargetWarn) {
		preview.Warnings = append(preview.Warnings, fmt.Sprintf(
			"Crypto target of %s%% carries outsized drawdown risk",
			target.Crypto.Round(1).String()))
	}
	if preview.Summary.WashSaleRisks > 0 {
		preview.Warnings = append(preview.Warnings, fmt.Sprintf(
			"%d sell trade(s) risk a wash sale if a substantially identical fund is repurchased within 30 days",
			preview.Summary.WashSaleRisks))
	}

	if !preview.RebalancingNeeded {
		preview.Recommendations = append(preview.Recommendations,
			"Portfolio is within the drift threshold; no trades needed.")
		return
	}
	if preview.Summary.EstimatedTaxes.GreaterThan(decimal.Zero) && !options.PreferTaxAdvantaged {
		preview.Recommendations = append(preview.Recommendations,
			"Enable tax-advantaged preference to reduce the estimated tax bill.")
	}
	if preview.Summary.RealizedLosses.GreaterThan(decimal.Zero) {
		preview.Recommendations = append(preview.Recommendations, fmt.Sprintf(
			"Harvested losses of $%s offset an estimated $%s in taxes.",
			preview.Summary.RealizedLosses.Round(2).String(),
			preview.Summary.EstimatedTaxSavings.String()))
	}
	if preview.Summary.EstimatedTaxes.GreaterThan(decimal.Zero) {
		preview.Recommendations = append(preview.Recommendations, fmt.Sprintf(
			"Executing all sells realizes an estimated $%s in taxes; consider spreading sales across tax years.",
			preview.Summary.EstimatedTaxes.String()))
	}
}
