package registry

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"maven-analytics/internal/models"
)

// FundProfile carries the static reference data for one ticker. Expense
// ratios and yields are percentages (0.03 means 0.03% per year).
type FundProfile struct {
	Ticker             string                                `json:"ticker"`
	Name               string                                `json:"name"`
	AssetClass         models.AssetClass                     `json:"asset_class"`
	ExpenseRatio       decimal.Decimal                       `json:"expense_ratio"`
	DividendYield      decimal.Decimal                       `json:"dividend_yield"`
	MonthlyPayer       bool                                  `json:"monthly_payer"`
	DividendAristocrat bool                                  `json:"dividend_aristocrat"`
	Decomposition      map[models.AssetClass]decimal.Decimal `json:"decomposition,omitempty"`
	FactorLoadings     *models.FactorExposures               `json:"factor_loadings,omitempty"`
}

// OverlapGroup names a set of funds tracking the same or highly correlated
// underlying index, with fixed pairwise overlap coefficients (percent).
type OverlapGroup struct {
	Name               string                     `json:"name"`
	Tickers            []string                   `json:"tickers"`
	DefaultCoefficient decimal.Decimal            `json:"default_coefficient"`
	PairCoefficients   map[string]decimal.Decimal `json:"pair_coefficients,omitempty"`
}

// Substitute maps an expensive fund to a lower-cost alternative tracking a
// comparable index.
type Substitute struct {
	Ticker       string          `json:"ticker"`
	Name         string          `json:"name"`
	ExpenseRatio decimal.Decimal `json:"expense_ratio"`
}

// CapitalMarketAssumption holds the fixed per-class forward estimates used by
// the benchmark comparator. All values are percentages.
type CapitalMarketAssumption struct {
	ExpectedReturn decimal.Decimal `json:"expected_return"`
	Volatility     decimal.Decimal `json:"volatility"`
	MaxDrawdown    decimal.Decimal `json:"max_drawdown"`
}

// Config assembles the static tables a Registry is built from, enabling
// tests to inject synthetic fund data.
type Config struct {
	Funds            []FundProfile
	OverlapGroups    []OverlapGroup
	Substitutes      map[string]Substitute
	IdenticalSets    [][]string
	ClassFactors     map[models.AssetClass]models.FactorExposures
	ClassAssumptions map[models.AssetClass]CapitalMarketAssumption
	RiskFreeRate     decimal.Decimal
}

// Registry is the immutable lookup service backing every analyzer. Built
// once at process start and shared; all methods are read-only.
type Registry struct {
	funds            map[string]FundProfile
	overlapGroups    []OverlapGroup
	substitutes      map[string]Substitute
	identical        map[string]map[string]bool
	classFactors     map[models.AssetClass]models.FactorExposures
	classAssumptions map[models.AssetClass]CapitalMarketAssumption
	riskFreeRate     decimal.Decimal
}

// New builds a Registry from static configuration data.
func New(cfg Config) *Registry {
	r := &Registry{
		funds:            make(map[string]FundProfile, len(cfg.Funds)),
		overlapGroups:    cfg.OverlapGroups,
		substitutes:      make(map[string]Substitute, len(cfg.Substitutes)),
		identical:        make(map[string]map[string]bool),
		classFactors:     cfg.ClassFactors,
		classAssumptions: cfg.ClassAssumptions,
		riskFreeRate:     cfg.RiskFreeRate,
	}

	for _, fund := range cfg.Funds {
		r.funds[canonical(fund.Ticker)] = fund
	}
	for ticker, sub := range cfg.Substitutes {
		r.substitutes[canonical(ticker)] = sub
	}
	for _, set := range cfg.IdenticalSets {
		for _, a := range set {
			key := canonical(a)
			if r.identical[key] == nil {
				r.identical[key] = make(map[string]bool, len(set)-1)
			}
			for _, b := range set {
				if !strings.EqualFold(a, b) {
					r.identical[key][canonical(b)] = true
				}
			}
		}
	}

	return r
}

// Default returns the registry built from the built-in static tables.
func Default() *Registry {
	return New(defaultConfig())
}

func canonical(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Lookup returns the fund profile for a ticker, case-insensitively.
func (r *Registry) Lookup(ticker string) (FundProfile, bool) {
	fund, ok := r.funds[canonical(ticker)]
	return fund, ok
}

// AssetClass returns the asset class for a ticker. Unknown tickers default
// to US equity: the registry only tracks funds and well-known symbols, and
// an unrecognized ticker is assumed to be an individual US stock.
func (r *Registry) AssetClass(ticker string) models.AssetClass {
	if fund, ok := r.Lookup(ticker); ok {
		return fund.AssetClass
	}
	return models.AssetClassUSEquity
}

// ExpenseRatio returns the annual expense ratio percentage for a ticker.
// Individual stocks and unknown tickers carry a 0% ratio.
func (r *Registry) ExpenseRatio(ticker string) decimal.Decimal {
	if fund, ok := r.Lookup(ticker); ok {
		return fund.ExpenseRatio
	}
	return decimal.Zero
}

// DividendYield returns the trailing yield percentage for a ticker, zero when
// unknown.
func (r *Registry) DividendYield(ticker string) decimal.Decimal {
	if fund, ok := r.Lookup(ticker); ok {
		return fund.DividendYield
	}
	return decimal.Zero
}

// Substitute returns the lower-cost alternative for a ticker, if one is
// tabulated.
func (r *Registry) Substitute(ticker string) (Substitute, bool) {
	sub, ok := r.substitutes[canonical(ticker)]
	return sub, ok
}

// SubstantiallyIdentical reports whether two tickers fall in the same
// wash-sale similarity set.
func (r *Registry) SubstantiallyIdentical(a, b string) bool {
	set, ok := r.identical[canonical(a)]
	if !ok {
		return false
	}
	return set[canonical(b)]
}

// HasIdenticalSubstitute reports whether any tabulated security is
// substantially identical to the ticker.
func (r *Registry) HasIdenticalSubstitute(ticker string) bool {
	return len(r.identical[canonical(ticker)]) > 0
}

// OverlapGroups returns the static overlap group table.
func (r *Registry) OverlapGroups() []OverlapGroup {
	return r.overlapGroups
}

// PairOverlap returns the fixed overlap coefficient (percent) between two
// tickers, scanning groups in table order. Returns false when the pair does
// not co-occur in any group.
func (r *Registry) PairOverlap(a, b string) (decimal.Decimal, bool) {
	ca, cb := canonical(a), canonical(b)
	for _, group := range r.overlapGroups {
		if !containsTicker(group.Tickers, ca) || !containsTicker(group.Tickers, cb) {
			continue
		}
		if coeff, ok := group.PairCoefficients[pairKey(ca, cb)]; ok {
			return coeff, true
		}
		return group.DefaultCoefficient, true
	}
	return decimal.Zero, false
}

// ClassFactorLoadings returns the heuristic factor loadings for an asset
// class. These are simplified per-class constants, not regression output,
// and are treated as swappable configuration.
func (r *Registry) ClassFactorLoadings(class models.AssetClass) models.FactorExposures {
	if loadings, ok := r.classFactors[class]; ok {
		return loadings
	}
	return models.FactorExposures{}
}

// FactorLoadings resolves a ticker's factor loadings: per-ticker data when
// tabulated, per-class heuristics otherwise.
func (r *Registry) FactorLoadings(ticker string) models.FactorExposures {
	if fund, ok := r.Lookup(ticker); ok && fund.FactorLoadings != nil {
		return *fund.FactorLoadings
	}
	return r.ClassFactorLoadings(r.AssetClass(ticker))
}

// ClassAssumption returns the capital-market assumption for an asset class.
func (r *Registry) ClassAssumption(class models.AssetClass) CapitalMarketAssumption {
	if assumption, ok := r.classAssumptions[class]; ok {
		return assumption
	}
	return CapitalMarketAssumption{}
}

// RiskFreeRate returns the fixed risk-free rate percentage used for Sharpe
// estimates.
func (r *Registry) RiskFreeRate() decimal.Decimal {
	return r.riskFreeRate
}

// FundCount returns the number of tabulated tickers.
func (r *Registry) FundCount() int {
	return len(r.funds)
}

// Tickers returns all tabulated tickers in sorted order.
func (r *Registry) Tickers() []string {
	tickers := make([]string, 0, len(r.funds))
	for ticker := range r.funds {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}

func containsTicker(tickers []string, canonicalTicker string) bool {
	for _, t := range tickers {
		if canonical(t) == canonicalTicker {
			return true
		}
	}
	return false
}

// pairKey builds an order-independent map key for a ticker pair.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "/" + b
}
