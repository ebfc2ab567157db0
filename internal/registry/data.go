package registry

import (
	"github.com/shopspring/decimal"

	"maven-analytics/internal/models"
)

// The tables below are the static reference data the analytics core runs
// against. Expense ratios, yields, overlap coefficients and factor loadings
// are fixed heuristic estimates, not live market data.

func pct(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func loadings(beta, size, value, momentum, quality float64) *models.FactorExposures {
	return &models.FactorExposures{
		MarketBeta: pct(beta),
		Size:       pct(size),
		Value:      pct(value),
		Momentum:   pct(momentum),
		Quality:    pct(quality),
	}
}

func defaultConfig() Config {
	return Config{
		Funds:            defaultFunds(),
		OverlapGroups:    defaultOverlapGroups(),
		Substitutes:      defaultSubstitutes(),
		IdenticalSets:    defaultIdenticalSets(),
		ClassFactors:     defaultClassFactors(),
		ClassAssumptions: defaultClassAssumptions(),
		RiskFreeRate:     pct(4.0),
	}
}

func defaultFunds() []FundProfile {
	return []FundProfile{
		// US total market and S&P 500 trackers
		{Ticker: "VTI", Name: "Vanguard Total Stock Market ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.03), DividendYield: pct(1.35)},
		{Ticker: "ITOT", Name: "iShares Core S&P Total US Stock Market ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.03), DividendYield: pct(1.30)},
		{Ticker: "SCHB", Name: "Schwab US Broad Market ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.03), DividendYield: pct(1.32)},
		{Ticker: "VOO", Name: "Vanguard S&P 500 ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.03), DividendYield: pct(1.30)},
		{Ticker: "SPY", Name: "SPDR S&P 500 ETF Trust", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.0945), DividendYield: pct(1.25)},
		{Ticker: "IVV", Name: "iShares Core S&P 500 ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.03), DividendYield: pct(1.30)},
		{Ticker: "SPLG", Name: "SPDR Portfolio S&P 500 ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.02), DividendYield: pct(1.30)},
		{Ticker: "FXAIX", Name: "Fidelity 500 Index Fund", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.015), DividendYield: pct(1.28)},
		{Ticker: "SCHX", Name: "Schwab US Large-Cap ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.03), DividendYield: pct(1.30)},

		// US style and sector tilts
		{Ticker: "QQQ", Name: "Invesco QQQ Trust", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.20), DividendYield: pct(0.60), FactorLoadings: loadings(1.10, -0.30, -0.35, 0.25, 0.25)},
		{Ticker: "QQQM", Name: "Invesco Nasdaq 100 ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.15), DividendYield: pct(0.65), FactorLoadings: loadings(1.10, -0.30, -0.35, 0.25, 0.25)},
		{Ticker: "VUG", Name: "Vanguard Growth ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.04), DividendYield: pct(0.55), FactorLoadings: loadings(1.08, -0.25, -0.35, 0.20, 0.15)},
		{Ticker: "VTV", Name: "Vanguard Value ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.04), DividendYield: pct(2.45), FactorLoadings: loadings(0.92, -0.10, 0.40, -0.05, 0.15)},
		{Ticker: "VB", Name: "Vanguard Small-Cap ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.05), DividendYield: pct(1.50), FactorLoadings: loadings(1.12, 0.60, 0.10, 0.00, -0.10)},
		{Ticker: "ARKK", Name: "ARK Innovation ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.75), DividendYield: pct(0.0), FactorLoadings: loadings(1.45, 0.35, -0.50, 0.30, -0.35)},
		{Ticker: "RSP", Name: "Invesco S&P 500 Equal Weight ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.20), DividendYield: pct(1.70), FactorLoadings: loadings(1.00, 0.20, 0.15, -0.05, 0.05)},

		// Dividend-focused funds
		{Ticker: "SCHD", Name: "Schwab US Dividend Equity ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.06), DividendYield: pct(3.45), DividendAristocrat: true, FactorLoadings: loadings(0.85, -0.10, 0.30, 0.00, 0.35)},
		{Ticker: "VIG", Name: "Vanguard Dividend Appreciation ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.06), DividendYield: pct(1.75), DividendAristocrat: true, FactorLoadings: loadings(0.88, -0.15, 0.10, 0.05, 0.40)},
		{Ticker: "VYM", Name: "Vanguard High Dividend Yield ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.06), DividendYield: pct(2.85), FactorLoadings: loadings(0.88, -0.10, 0.35, -0.05, 0.20)},
		{Ticker: "NOBL", Name: "ProShares S&P 500 Dividend Aristocrats ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.35), DividendYield: pct(2.05), DividendAristocrat: true, FactorLoadings: loadings(0.88, 0.00, 0.20, 0.00, 0.35)},
		{Ticker: "SDY", Name: "SPDR S&P Dividend ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.35), DividendYield: pct(2.55), DividendAristocrat: true, FactorLoadings: loadings(0.86, 0.10, 0.30, -0.05, 0.30)},
		{Ticker: "DGRO", Name: "iShares Core Dividend Growth ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.08), DividendYield: pct(2.30), DividendAristocrat: true, FactorLoadings: loadings(0.90, -0.10, 0.20, 0.00, 0.35)},
		{Ticker: "JEPI", Name: "JPMorgan Equity Premium Income ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.35), DividendYield: pct(7.90), MonthlyPayer: true, FactorLoadings: loadings(0.65, -0.15, 0.20, -0.10, 0.20)},
		{Ticker: "QYLD", Name: "Global X Nasdaq 100 Covered Call ETF", AssetClass: models.AssetClassUSEquity, ExpenseRatio: pct(0.61), DividendYield: pct(11.80), MonthlyPayer: true, FactorLoadings: loadings(0.60, -0.25, -0.20, 0.00, 0.00)},

		// International equity
		{Ticker: "VXUS", Name: "Vanguard Total International Stock ETF", AssetClass: models.AssetClassIntlEquity, ExpenseRatio: pct(0.07), DividendYield: pct(3.10)},
		{Ticker: "IXUS", Name: "iShares Core MSCI Total International Stock ETF", AssetClass: models.AssetClassIntlEquity, ExpenseRatio: pct(0.07), DividendYield: pct(3.05)},
		{Ticker: "VEA", Name: "Vanguard FTSE Developed Markets ETF", AssetClass: models.AssetClassIntlEquity, ExpenseRatio: pct(0.05), DividendYield: pct(3.20)},
		{Ticker: "IEFA", Name: "iShares Core MSCI EAFE ETF", AssetClass: models.AssetClassIntlEquity, ExpenseRatio: pct(0.07), DividendYield: pct(3.10)},
		{Ticker: "EFA", Name: "iShares MSCI EAFE ETF", AssetClass: models.AssetClassIntlEquity, ExpenseRatio: pct(0.33), DividendYield: pct(3.00)},
		{Ticker: "SCHF", Name: "Schwab International Equity ETF", AssetClass: models.AssetClassIntlEquity, ExpenseRatio: pct(0.06), DividendYield: pct(3.15)},
		{Ticker: "VWO", Name: "Vanguard FTSE Emerging Markets ETF", AssetClass: models.AssetClassIntlEquity, ExpenseRatio: pct(0.08), DividendYield: pct(3.40)},
		{Ticker: "IEMG", Name: "iShares Core MSCI Emerging Markets ETF", AssetClass: models.AssetClassIntlEquity, ExpenseRatio: pct(0.09), DividendYield: pct(3.25)},

		// Bonds
		{Ticker: "BND", Name: "Vanguard Total Bond Market ETF", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.03), DividendYield: pct(4.10), MonthlyPayer: true},
		{Ticker: "AGG", Name: "iShares Core US Aggregate Bond ETF", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.03), DividendYield: pct(4.05), MonthlyPayer: true},
		{Ticker: "BNDX", Name: "Vanguard Total International Bond ETF", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.07), DividendYield: pct(3.30), MonthlyPayer: true},
		{Ticker: "TLT", Name: "iShares 20+ Year Treasury Bond ETF", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.15), DividendYield: pct(4.35), MonthlyPayer: true},
		{Ticker: "IEF", Name: "iShares 7-10 Year Treasury Bond ETF", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.15), DividendYield: pct(4.00), MonthlyPayer: true},
		{Ticker: "SHY", Name: "iShares 1-3 Year Treasury Bond ETF", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.15), DividendYield: pct(4.40), MonthlyPayer: true},
		{Ticker: "LQD", Name: "iShares iBoxx Investment Grade Corporate Bond ETF", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.14), DividendYield: pct(4.45), MonthlyPayer: true},
		{Ticker: "HYG", Name: "iShares iBoxx High Yield Corporate Bond ETF", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.48), DividendYield: pct(5.85), MonthlyPayer: true},
		{Ticker: "MUB", Name: "iShares National Muni Bond ETF", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.05), DividendYield: pct(3.10), MonthlyPayer: true},
		{Ticker: "VBTLX", Name: "Vanguard Total Bond Market Index Fund", AssetClass: models.AssetClassBonds, ExpenseRatio: pct(0.05), DividendYield: pct(4.10), MonthlyPayer: true},

		// Cash equivalents
		{Ticker: "SGOV", Name: "iShares 0-3 Month Treasury Bond ETF", AssetClass: models.AssetClassCash, ExpenseRatio: pct(0.09), DividendYield: pct(5.10), MonthlyPayer: true},
		{Ticker: "BIL", Name: "SPDR Bloomberg 1-3 Month T-Bill ETF", AssetClass: models.AssetClassCash, ExpenseRatio: pct(0.135), DividendYield: pct(5.00), MonthlyPayer: true},
		{Ticker: "USFR", Name: "WisdomTree Floating Rate Treasury Fund", AssetClass: models.AssetClassCash, ExpenseRatio: pct(0.15), DividendYield: pct(5.15), MonthlyPayer: true},
		{Ticker: "VMFXX", Name: "Vanguard Federal Money Market Fund", AssetClass: models.AssetClassCash, ExpenseRatio: pct(0.11), DividendYield: pct(5.00), MonthlyPayer: true},
		{Ticker: "SPAXX", Name: "Fidelity Government Money Market Fund", AssetClass: models.AssetClassCash, ExpenseRatio: pct(0.42), DividendYield: pct(4.75), MonthlyPayer: true},
		{Ticker: "CASH", Name: "Cash", AssetClass: models.AssetClassCash},

		// Crypto
		{Ticker: "BTC", Name: "Bitcoin", AssetClass: models.AssetClassCrypto},
		{Ticker: "ETH", Name: "Ethereum", AssetClass: models.AssetClassCrypto},
		{Ticker: "SOL", Name: "Solana", AssetClass: models.AssetClassCrypto},
		{Ticker: "GBTC", Name: "Grayscale Bitcoin Trust", AssetClass: models.AssetClassCrypto, ExpenseRatio: pct(1.50)},
		{Ticker: "IBIT", Name: "iShares Bitcoin Trust", AssetClass: models.AssetClassCrypto, ExpenseRatio: pct(0.25)},
		{Ticker: "FBTC", Name: "Fidelity Wise Origin Bitcoin Fund", AssetClass: models.AssetClassCrypto, ExpenseRatio: pct(0.25)},

		// REITs
		{Ticker: "VNQ", Name: "Vanguard Real Estate ETF", AssetClass: models.AssetClassREITs, ExpenseRatio: pct(0.12), DividendYield: pct(3.95)},
		{Ticker: "SCHH", Name: "Schwab US REIT ETF", AssetClass: models.AssetClassREITs, ExpenseRatio: pct(0.07), DividendYield: pct(3.60)},
		{Ticker: "IYR", Name: "iShares US Real Estate ETF", AssetClass: models.AssetClassREITs, ExpenseRatio: pct(0.39), DividendYield: pct(3.30)},
		{Ticker: "O", Name: "Realty Income Corporation", AssetClass: models.AssetClassREITs, DividendYield: pct(5.50), MonthlyPayer: true, DividendAristocrat: true},

		// Gold
		{Ticker: "GLD", Name: "SPDR Gold Shares", AssetClass: models.AssetClassGold, ExpenseRatio: pct(0.40)},
		{Ticker: "IAU", Name: "iShares Gold Trust", AssetClass: models.AssetClassGold, ExpenseRatio: pct(0.25)},
		{Ticker: "GLDM", Name: "SPDR Gold MiniShares Trust", AssetClass: models.AssetClassGold, ExpenseRatio: pct(0.10)},
		{Ticker: "SGOL", Name: "abrdn Physical Gold Shares ETF", AssetClass: models.AssetClassGold, ExpenseRatio: pct(0.17)},

		// Multi-asset funds with fixed decompositions
		{
			Ticker: "VT", Name: "Vanguard Total World Stock ETF", AssetClass: models.AssetClassUSEquity,
			ExpenseRatio: pct(0.07), DividendYield: pct(2.00),
			Decomposition: map[models.AssetClass]decimal.Decimal{
				models.AssetClassUSEquity:   pct(60),
				models.AssetClassIntlEquity: pct(40),
			},
		},
		{
			Ticker: "VTWAX", Name: "Vanguard Total World Stock Index Fund", AssetClass: models.AssetClassUSEquity,
			ExpenseRatio: pct(0.10), DividendYield: pct(2.00),
			Decomposition: map[models.AssetClass]decimal.Decimal{
				models.AssetClassUSEquity:   pct(60),
				models.AssetClassIntlEquity: pct(40),
			},
		},
		{
			Ticker: "AOA", Name: "iShares Core Aggressive Allocation ETF", AssetClass: models.AssetClassUSEquity,
			ExpenseRatio: pct(0.15), DividendYield: pct(2.10),
			Decomposition: map[models.AssetClass]decimal.Decimal{
				models.AssetClassUSEquity:   pct(48),
				models.AssetClassIntlEquity: pct(32),
				models.AssetClassBonds:      pct(20),
			},
		},
		{
			Ticker: "AOR", Name: "iShares Core Growth Allocation ETF", AssetClass: models.AssetClassUSEquity,
			ExpenseRatio: pct(0.15), DividendYield: pct(2.35),
			Decomposition: map[models.AssetClass]decimal.Decimal{
				models.AssetClassUSEquity:   pct(36),
				models.AssetClassIntlEquity: pct(24),
				models.AssetClassBonds:      pct(40),
			},
		},
		{
			Ticker: "AOM", Name: "iShares Core Moderate Allocation ETF", AssetClass: models.AssetClassUSEquity,
			ExpenseRatio: pct(0.15), DividendYield: pct(2.55),
			Decomposition: map[models.AssetClass]decimal.Decimal{
				models.AssetClassUSEquity:   pct(25),
				models.AssetClassIntlEquity: pct(15),
				models.AssetClassBonds:      pct(60),
			},
		},
		{
			Ticker: "VBIAX", Name: "Vanguard Balanced Index Fund", AssetClass: models.AssetClassUSEquity,
			ExpenseRatio: pct(0.07), DividendYield: pct(2.20),
			Decomposition: map[models.AssetClass]decimal.Decimal{
				models.AssetClassUSEquity: pct(60),
				models.AssetClassBonds:    pct(40),
			},
		},
	}
}

func defaultOverlapGroups() []OverlapGroup {
	return []OverlapGroup{
		{
			Name:               "US Total Market / S&P 500",
			Tickers:            []string{"VTI", "ITOT", "SCHB", "VOO", "SPY", "IVV", "SPLG", "FXAIX", "SCHX"},
			DefaultCoefficient: pct(85),
			PairCoefficients: map[string]decimal.Decimal{
				"VOO/VTI":  pct(82),
				"SPY/VTI":  pct(82),
				"IVV/VTI":  pct(82),
				"ITOT/VTI": pct(99),
				"SCHB/VTI": pct(98),
				"SPY/VOO":  pct(100),
				"IVV/VOO":  pct(100),
				"IVV/SPY":  pct(100),
				"SPLG/VOO": pct(100),
			},
		},
		{
			Name:               "Nasdaq 100",
			Tickers:            []string{"QQQ", "QQQM"},
			DefaultCoefficient: pct(100),
		},
		{
			Name:               "International Developed Markets",
			Tickers:            []string{"VEA", "IEFA", "SCHF", "EFA", "VXUS", "IXUS"},
			DefaultCoefficient: pct(92),
			PairCoefficients: map[string]decimal.Decimal{
				"VEA/VXUS":  pct(75),
				"IEFA/VXUS": pct(73),
				"IXUS/VXUS": pct(99),
				"EFA/IEFA":  pct(98),
			},
		},
		{
			Name:               "Emerging Markets",
			Tickers:            []string{"VWO", "IEMG"},
			DefaultCoefficient: pct(90),
		},
		{
			Name:               "US Aggregate Bonds",
			Tickers:            []string{"BND", "AGG", "VBTLX"},
			DefaultCoefficient: pct(96),
		},
		{
			Name:               "Gold Bullion",
			Tickers:            []string{"GLD", "IAU", "GLDM", "SGOL"},
			DefaultCoefficient: pct(100),
		},
		{
			Name:               "US Dividend Strategies",
			Tickers:            []string{"SCHD", "VYM", "SDY", "NOBL", "DGRO"},
			DefaultCoefficient: pct(40),
			PairCoefficients: map[string]decimal.Decimal{
				"SCHD/VYM": pct(43),
				"NOBL/SDY": pct(55),
			},
		},
		{
			Name:               "US REITs",
			Tickers:            []string{"VNQ", "SCHH", "IYR"},
			DefaultCoefficient: pct(90),
		},
		{
			Name:               "Spot Bitcoin",
			Tickers:            []string{"GBTC", "IBIT", "FBTC"},
			DefaultCoefficient: pct(100),
		},
	}
}

func defaultSubstitutes() map[string]Substitute {
	return map[string]Substitute{
		"SPY":   {Ticker: "VOO", Name: "Vanguard S&P 500 ETF", ExpenseRatio: pct(0.03)},
		"EFA":   {Ticker: "VEA", Name: "Vanguard FTSE Developed Markets ETF", ExpenseRatio: pct(0.05)},
		"IYR":   {Ticker: "VNQ", Name: "Vanguard Real Estate ETF", ExpenseRatio: pct(0.12)},
		"GLD":   {Ticker: "GLDM", Name: "SPDR Gold MiniShares Trust", ExpenseRatio: pct(0.10)},
		"QQQ":   {Ticker: "QQQM", Name: "Invesco Nasdaq 100 ETF", ExpenseRatio: pct(0.15)},
		"NOBL":  {Ticker: "SCHD", Name: "Schwab US Dividend Equity ETF", ExpenseRatio: pct(0.06)},
		"GBTC":  {Ticker: "IBIT", Name: "iShares Bitcoin Trust", ExpenseRatio: pct(0.25)},
		"SPAXX": {Ticker: "SGOV", Name: "iShares 0-3 Month Treasury Bond ETF", ExpenseRatio: pct(0.09)},
		"HYG":   {Ticker: "BND", Name: "Vanguard Total Bond Market ETF", ExpenseRatio: pct(0.03)},
	}
}

func defaultIdenticalSets() [][]string {
	return [][]string{
		{"VTI", "ITOT", "SCHB"},
		{"VOO", "SPY", "IVV", "SPLG", "FXAIX"},
		{"QQQ", "QQQM"},
		{"VXUS", "IXUS"},
		{"VEA", "IEFA", "SCHF", "EFA"},
		{"VWO", "IEMG"},
		{"BND", "AGG", "VBTLX"},
		{"GLD", "IAU", "GLDM", "SGOL"},
		{"VNQ", "SCHH"},
		{"GBTC", "IBIT", "FBTC"},
	}
}

func defaultClassFactors() map[models.AssetClass]models.FactorExposures {
	return map[models.AssetClass]models.FactorExposures{
		models.AssetClassUSEquity:     {MarketBeta: pct(1.00), Size: pct(-0.15), Value: pct(0.00), Momentum: pct(0.05), Quality: pct(0.10)},
		models.AssetClassIntlEquity:   {MarketBeta: pct(0.90), Size: pct(0.00), Value: pct(0.15), Momentum: pct(-0.05), Quality: pct(0.00)},
		models.AssetClassBonds:        {MarketBeta: pct(0.10), Size: pct(0.00), Value: pct(0.05), Momentum: pct(0.00), Quality: pct(0.10)},
		models.AssetClassCrypto:       {MarketBeta: pct(1.80), Size: pct(0.50), Value: pct(-0.50), Momentum: pct(0.55), Quality: pct(-0.40)},
		models.AssetClassCash:         {},
		models.AssetClassREITs:        {MarketBeta: pct(0.80), Size: pct(0.20), Value: pct(0.30), Momentum: pct(-0.10), Quality: pct(0.00)},
		models.AssetClassGold:         {MarketBeta: pct(0.10), Size: pct(0.00), Value: pct(0.00), Momentum: pct(0.10), Quality: pct(0.00)},
		models.AssetClassAlternatives: {MarketBeta: pct(0.60), Size: pct(0.10), Value: pct(0.00), Momentum: pct(0.10), Quality: pct(-0.10)},
	}
}

func defaultClassAssumptions() map[models.AssetClass]CapitalMarketAssumption {
	return map[models.AssetClass]CapitalMarketAssumption{
		models.AssetClassUSEquity:     {ExpectedReturn: pct(10.0), Volatility: pct(15.5), MaxDrawdown: pct(50)},
		models.AssetClassIntlEquity:   {ExpectedReturn: pct(8.5), Volatility: pct(17.0), MaxDrawdown: pct(55)},
		models.AssetClassBonds:        {ExpectedReturn: pct(4.5), Volatility: pct(5.5), MaxDrawdown: pct(15)},
		models.AssetClassCrypto:       {ExpectedReturn: pct(15.0), Volatility: pct(65.0), MaxDrawdown: pct(80)},
		models.AssetClassCash:         {ExpectedReturn: pct(4.0), Volatility: pct(0.5), MaxDrawdown: pct(0)},
		models.AssetClassREITs:        {ExpectedReturn: pct(8.0), Volatility: pct(19.0), MaxDrawdown: pct(60)},
		models.AssetClassGold:         {ExpectedReturn: pct(5.0), Volatility: pct(14.0), MaxDrawdown: pct(35)},
		models.AssetClassAlternatives: {ExpectedReturn: pct(6.5), Volatility: pct(10.0), MaxDrawdown: pct(30)},
	}
}
