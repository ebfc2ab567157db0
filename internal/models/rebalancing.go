package models

import (
	"github.com/shopspring/decimal"
)

// TradeAction is the direction of a rebalancing trade.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "buy"
	TradeActionSell TradeAction = "sell"
)

// GainType classifies a realized gain for tax estimation.
type GainType string

const (
	GainTypeShortTerm GainType = "short_term"
	GainTypeLongTerm  GainType = "long_term"
)

// RebalancingTrade is a single advisory buy or sell. Generated fresh per
// request and never persisted.
type RebalancingTrade struct {
	Ticker         string          `json:"ticker"`
	Action         TradeAction     `json:"action"`
	Shares         decimal.Decimal `json:"shares"`
	Amount         decimal.Decimal `json:"amount"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	AssetClass     AssetClass      `json:"asset_class"`
	UnrealizedGain decimal.Decimal `json:"unrealized_gain,omitempty"`
	GainType       GainType        `json:"gain_type,omitempty"`
	WashSaleRisk   bool            `json:"wash_sale_risk"`
	AccountName    string          `json:"account_name,omitempty"`
	AccountType    AccountType     `json:"account_type,omitempty"`
	Reason         string          `json:"reason,omitempty"`
}

// AccountTradeSummary aggregates trades by account.
type AccountTradeSummary struct {
	AccountName string          `json:"account_name"`
	SellAmount  decimal.Decimal `json:"sell_amount"`
	BuyAmount   decimal.Decimal `json:"buy_amount"`
	TradeCount  int             `json:"trade_count"`
}

// RebalancingSummary aggregates the tax and cash-flow consequences of a
// trade list.
type RebalancingSummary struct {
	TotalSellAmount     decimal.Decimal                `json:"total_sell_amount"`
	TotalBuyAmount      decimal.Decimal                `json:"total_buy_amount"`
	NetCashFlow         decimal.Decimal                `json:"net_cash_flow"`
	ShortTermGains      decimal.Decimal                `json:"short_term_gains"`
	LongTermGains       decimal.Decimal                `json:"long_term_gains"`
	RealizedLosses      decimal.Decimal                `json:"realized_losses"`
	EstimatedTaxes      decimal.Decimal                `json:"estimated_taxes"`
	EstimatedTaxSavings decimal.Decimal                `json:"estimated_tax_savings"`
	WashSaleRisks       int                            `json:"wash_sale_risks"`
	TradesByAccount     map[string]AccountTradeSummary `json:"trades_by_account"`
}

// ClassDrift reports current-versus-target for one core asset class.
type ClassDrift struct {
	AssetClass     AssetClass      `json:"asset_class"`
	CurrentPercent decimal.Decimal `json:"current_percent"`
	TargetPercent  decimal.Decimal `json:"target_percent"`
	Drift          decimal.Decimal `json:"drift"`
	AdjustmentUSD  decimal.Decimal `json:"adjustment_usd"`
	Actionable     bool            `json:"actionable"`
}

// RebalancingPreview is the full advisory output of a rebalancing request.
// Sells always precede buys in Trades; sells fund buys.
type RebalancingPreview struct {
	Trades            []RebalancingTrade `json:"trades"`
	Drifts            []ClassDrift       `json:"drifts"`
	CurrentAllocation TargetAllocation   `json:"current_allocation"`
	TargetAllocation  TargetAllocation   `json:"target_allocation"`
	TotalValue        decimal.Decimal    `json:"total_value"`
	RebalancingNeeded bool               `json:"rebalancing_needed"`
	Summary           RebalancingSummary `json:"summary"`
	Warnings          []string           `json:"warnings"`
	Recommendations   []string           `json:"recommendations"`
}
