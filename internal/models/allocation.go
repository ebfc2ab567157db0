package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssetClassAllocation is a fixed-key percentage breakdown across all eight
// asset classes. Populated values sum to 100 within floating-point tolerance.
type AssetClassAllocation struct {
	USEquity     decimal.Decimal `json:"us_equity"`
	IntlEquity   decimal.Decimal `json:"intl_equity"`
	Bonds        decimal.Decimal `json:"bonds"`
	Crypto       decimal.Decimal `json:"crypto"`
	Cash         decimal.Decimal `json:"cash"`
	REITs        decimal.Decimal `json:"reits"`
	Gold         decimal.Decimal `json:"gold"`
	Alternatives decimal.Decimal `json:"alternatives"`
}

// Get returns the percentage for a single asset class.
func (a *AssetClassAllocation) Get(class AssetClass) decimal.Decimal {
	switch class {
	case AssetClassUSEquity:
		return a.USEquity
	case AssetClassIntlEquity:
		return a.IntlEquity
	case AssetClassBonds:
		return a.Bonds
	case AssetClassCrypto:
		return a.Crypto
	case AssetClassCash:
		return a.Cash
	case AssetClassREITs:
		return a.REITs
	case AssetClassGold:
		return a.Gold
	case AssetClassAlternatives:
		return a.Alternatives
	default:
		return decimal.Zero
	}
}

// Add increments the percentage for a single asset class.
func (a *AssetClassAllocation) Add(class AssetClass, pct decimal.Decimal) {
	switch class {
	case AssetClassUSEquity:
		a.USEquity = a.USEquity.Add(pct)
	case AssetClassIntlEquity:
		a.IntlEquity = a.IntlEquity.Add(pct)
	case AssetClassBonds:
		a.Bonds = a.Bonds.Add(pct)
	case AssetClassCrypto:
		a.Crypto = a.Crypto.Add(pct)
	case AssetClassCash:
		a.Cash = a.Cash.Add(pct)
	case AssetClassREITs:
		a.REITs = a.REITs.Add(pct)
	case AssetClassGold:
		a.Gold = a.Gold.Add(pct)
	case AssetClassAlternatives:
		a.Alternatives = a.Alternatives.Add(pct)
	}
}

// Sum returns the total of all populated percentages.
func (a *AssetClassAllocation) Sum() decimal.Decimal {
	return a.USEquity.Add(a.IntlEquity).Add(a.Bonds).Add(a.Crypto).
		Add(a.Cash).Add(a.REITs).Add(a.Gold).Add(a.Alternatives)
}

// CoreAllocation folds the satellite classes (REITs, gold, alternatives) into
// us_equity, producing the five-class view the rebalancing calculator works
// against.
func (a *AssetClassAllocation) CoreAllocation() TargetAllocation {
	return TargetAllocation{
		USEquity:   a.USEquity.Add(a.REITs).Add(a.Gold).Add(a.Alternatives),
		IntlEquity: a.IntlEquity,
		Bonds:      a.Bonds,
		Crypto:     a.Crypto,
		Cash:       a.Cash,
	}
}

// TargetAllocation is the five-class allocation a user rebalances toward.
type TargetAllocation struct {
	USEquity   decimal.Decimal `json:"us_equity"`
	IntlEquity decimal.Decimal `json:"intl_equity"`
	Bonds      decimal.Decimal `json:"bonds"`
	Crypto     decimal.Decimal `json:"crypto"`
	Cash       decimal.Decimal `json:"cash"`
}

// Get returns the target percentage for a core asset class.
func (t *TargetAllocation) Get(class AssetClass) decimal.Decimal {
	switch class {
	case AssetClassUSEquity:
		return t.USEquity
	case AssetClassIntlEquity:
		return t.IntlEquity
	case AssetClassBonds:
		return t.Bonds
	case AssetClassCrypto:
		return t.Crypto
	case AssetClassCash:
		return t.Cash
	default:
		return decimal.Zero
	}
}

// Sum returns the total of the five target percentages.
func (t *TargetAllocation) Sum() decimal.Decimal {
	return t.USEquity.Add(t.IntlEquity).Add(t.Bonds).Add(t.Crypto).Add(t.Cash)
}

// Validate checks that each percentage is within 0-100 and the total is
// nominally 100.
func (t *TargetAllocation) Validate() error {
	hundred := decimal.NewFromInt(100)
	for _, class := range CoreAssetClasses {
		pct := t.Get(class)
		if pct.LessThan(decimal.Zero) || pct.GreaterThan(hundred) {
			return fmt.Errorf("target for %s must be between 0 and 100", class)
		}
	}
	if t.Sum().Sub(hundred).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		return fmt.Errorf("target allocation must sum to 100, got %s", t.Sum())
	}
	return nil
}

// FactorExposures holds the five portfolio factor scores. Market beta is
// centered on 1; the style factors are centered on 0.
type FactorExposures struct {
	MarketBeta decimal.Decimal `json:"market_beta"`
	Size       decimal.Decimal `json:"size"`
	Value      decimal.Decimal `json:"value"`
	Momentum   decimal.Decimal `json:"momentum"`
	Quality    decimal.Decimal `json:"quality"`
}

// NeutralFactorExposures is the defined result for an empty portfolio:
// beta 1, style factors 0. Never NaN.
func NeutralFactorExposures() FactorExposures {
	return FactorExposures{MarketBeta: decimal.NewFromInt(1)}
}
