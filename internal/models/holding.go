package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AssetClass identifies the broad asset category a holding belongs to.
type AssetClass string

const (
	AssetClassUSEquity     AssetClass = "us_equity"
	AssetClassIntlEquity   AssetClass = "intl_equity"
	AssetClassBonds        AssetClass = "bonds"
	AssetClassCrypto       AssetClass = "crypto"
	AssetClassCash         AssetClass = "cash"
	AssetClassREITs        AssetClass = "reits"
	AssetClassGold         AssetClass = "gold"
	AssetClassAlternatives AssetClass = "alternatives"
)

// AllAssetClasses lists every class in the fixed report ordering.
var AllAssetClasses = []AssetClass{
	AssetClassUSEquity,
	AssetClassIntlEquity,
	AssetClassBonds,
	AssetClassCrypto,
	AssetClassCash,
	AssetClassREITs,
	AssetClassGold,
	AssetClassAlternatives,
}

// CoreAssetClasses are the five classes used for target allocations and
// rebalancing. REITs, gold and alternatives fold into us_equity for drift
// purposes.
var CoreAssetClasses = []AssetClass{
	AssetClassUSEquity,
	AssetClassIntlEquity,
	AssetClassBonds,
	AssetClassCrypto,
	AssetClassCash,
}

// AccountType distinguishes taxable from tax-advantaged accounts for
// tax-aware trade ordering.
type AccountType string

const (
	AccountTypeTaxable       AccountType = "taxable"
	AccountTypeTaxAdvantaged AccountType = "tax_advantaged"
)

// Holding represents a single position in a portfolio
type Holding struct {
	Ticker       string          `json:"ticker"`
	Shares       decimal.Decimal `json:"shares"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	CurrentPrice decimal.Decimal `json:"current_price,omitempty"`
	CurrentValue decimal.Decimal `json:"current_value"`

	// Account context, optional. Used by the rebalancing calculator only.
	AccountName string      `json:"account_name,omitempty"`
	AccountType AccountType `json:"account_type,omitempty"`

	// LongTermHolding declares whether an eventual sale realizes a long-term
	// gain. Purchase dates are not tracked by the analytics core, so callers
	// assert this property directly.
	LongTermHolding bool `json:"long_term_holding,omitempty"`
}

// Value returns the position's market value, deriving it from shares and
// price when the caller did not provide one.
func (h *Holding) Value() decimal.Decimal {
	if h.CurrentValue.GreaterThan(decimal.Zero) {
		return h.CurrentValue
	}
	if h.Shares.GreaterThan(decimal.Zero) && h.CurrentPrice.GreaterThan(decimal.Zero) {
		return h.Shares.Mul(h.CurrentPrice)
	}
	return decimal.Zero
}

// UnrealizedGain returns market value minus cost basis. Negative for losing
// positions.
func (h *Holding) UnrealizedGain() decimal.Decimal {
	return h.Value().Sub(h.CostBasis)
}

// NormalizedTicker returns the ticker in canonical uppercase form.
func (h *Holding) NormalizedTicker() string {
	return strings.ToUpper(strings.TrimSpace(h.Ticker))
}

// Sanitize clamps malformed numeric fields to zero. The analytics core is
// advisory, so bad input degrades rather than erroring.
func (h *Holding) Sanitize() {
	h.Shares = clampNonNegative(h.Shares)
	h.CostBasis = clampNonNegative(h.CostBasis)
	h.CurrentPrice = clampNonNegative(h.CurrentPrice)
	h.CurrentValue = clampNonNegative(h.CurrentValue)
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return d
}

// SanitizeHoldings sanitizes every holding in place and returns the slice for
// chaining.
func SanitizeHoldings(holdings []Holding) []Holding {
	for i := range holdings {
		holdings[i].Sanitize()
	}
	return holdings
}

// TotalValue sums the market value of all holdings.
func TotalValue(holdings []Holding) decimal.Decimal {
	total := decimal.Zero
	for i := range holdings {
		total = total.Add(holdings[i].Value())
	}
	return total
}

// Validate checks structural requirements on a holding.
func (h *Holding) Validate() error {
	if strings.TrimSpace(h.Ticker) == "" {
		return fmt.Errorf("ticker is required")
	}
	if h.Shares.LessThan(decimal.Zero) {
		return fmt.Errorf("holding %s: shares cannot be negative", h.Ticker)
	}
	if h.CostBasis.LessThan(decimal.Zero) {
		return fmt.Errorf("holding %s: cost basis cannot be negative", h.Ticker)
	}
	return nil
}
