// Package export renders rebalancing previews as CSV and plain text. Both
// renderers are pure string formatting over an already-computed preview and
// make no trading decisions of their own.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"maven-analytics/internal/models"
)

// tradeListHeader fixes the CSV column order.
var tradeListHeader = []string{"ticker", "action", "shares", "price", "amount", "account", "tax_notes"}

// GenerateTradeListCSV renders one row per trade in the preview's order,
// which already lists sells before buys.
func GenerateTradeListCSV(preview models.RebalancingPreview) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(tradeListHeader); err != nil {
		return "", fmt.Errorf("writing trade list header: %w", err)
	}
	for _, trade := range preview.Trades {
		row := []string{
			trade.Ticker,
			string(trade.Action),
			trade.Shares.String(),
			trade.CurrentPrice.String(),
			trade.Amount.String(),
			trade.AccountName,
			taxNotes(trade),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing trade row for %s: %w", trade.Ticker, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing trade list: %w", err)
	}
	return buf.String(), nil
}

// taxNotes condenses a trade's tax consequences into one cell.
func taxNotes(trade models.RebalancingTrade) string {
	if trade.Action != models.TradeActionSell {
		return ""
	}
	notes := make([]string, 0, 3)
	switch {
	case trade.UnrealizedGain.LessThan(decimal.Zero):
		notes = append(notes, fmt.Sprintf("realizes $%s loss", trade.UnrealizedGain.Abs().String()))
	case trade.UnrealizedGain.GreaterThan(decimal.Zero):
		notes = append(notes, fmt.Sprintf("realizes $%s %s gain",
			trade.UnrealizedGain.String(), gainLabel(trade.GainType)))
	}
	if trade.WashSaleRisk {
		notes = append(notes, "wash-sale risk")
	}
	if trade.AccountType == models.AccountTypeTaxAdvantaged {
		notes = append(notes, "tax-advantaged account")
	}
	return strings.Join(notes, "; ")
}

func gainLabel(gainType models.GainType) string {
	if gainType == models.GainTypeLongTerm {
		return "long-term"
	}
	return "short-term"
}

// GenerateTradeListSummary renders a human-readable digest of the preview.
func GenerateTradeListSummary(preview models.RebalancingPreview) string {
	var b strings.Builder

	b.WriteString("REBALANCING TRADE LIST\n")
	b.WriteString("======================\n\n")

	if !preview.RebalancingNeeded {
		b.WriteString("No rebalancing needed: every asset class is within the drift threshold.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Portfolio value: $%s\n\n", preview.TotalValue.Round(2).String()))

	writeTradeSection(&b, "SELL ORDERS", preview.Trades, models.TradeActionSell)
	writeTradeSection(&b, "BUY ORDERS", preview.Trades, models.TradeActionBuy)

	summary := preview.Summary
	b.WriteString("SUMMARY\n")
	b.WriteString(fmt.Sprintf("  Total sells:          $%s\n", summary.TotalSellAmount.Round(2).String()))
	b.WriteString(fmt.Sprintf("  Total buys:           $%s\n", summary.TotalBuyAmount.Round(2).String()))
	b.WriteString(fmt.Sprintf("  Net cash flow:        $%s\n", summary.NetCashFlow.Round(2).String()))
	b.WriteString(fmt.Sprintf("  Estimated taxes:      $%s\n", summary.EstimatedTaxes.String()))
	if summary.EstimatedTaxSavings.GreaterThan(decimal.Zero) {
		b.WriteString(fmt.Sprintf("  Estimated tax savings: $%s\n", summary.EstimatedTaxSavings.String()))
	}
	if summary.WashSaleRisks > 0 {
		b.WriteString(fmt.Sprintf("  Wash-sale risks:      %d\n", summary.WashSaleRisks))
	}

	if len(summary.TradesByAccount) > 0 {
		b.WriteString("\nBY ACCOUNT\n")
		accounts := make([]string, 0, len(summary.TradesByAccount))
		for name := range summary.TradesByAccount {
			accounts = append(accounts, name)
		}
		sort.Strings(accounts)
		for _, name := range accounts {
			acct := summary.TradesByAccount[name]
			b.WriteString(fmt.Sprintf("  %s: %d trade(s), sell $%s, buy $%s\n",
				acct.AccountName, acct.TradeCount,
				acct.SellAmount.Round(2).String(), acct.BuyAmount.Round(2).String()))
		}
	}

	for _, warning := range preview.Warnings {
		b.WriteString(fmt.Sprintf("\nWARNING: %s\n", warning))
	}

	return b.String()
}

func writeTradeSection(b *strings.Builder, title string, trades []models.RebalancingTrade, action models.TradeAction) {
	matched := false
	for _, trade := range trades {
		if trade.Action != action {
			continue
		}
		if !matched {
			b.WriteString(title + "\n")
			matched = true
		}
		line := fmt.Sprintf("  %s  $%s", trade.Ticker, trade.Amount.Round(2).String())
		if trade.Shares.GreaterThan(decimal.Zero) {
			line += fmt.Sprintf(" (%s shares @ $%s)", trade.Shares.String(), trade.CurrentPrice.String())
		}
		if trade.AccountName != "" {
			line += fmt.Sprintf(" [%s]", trade.AccountName)
		}
		if notes := taxNotes(trade); notes != "" {
			line += " | " + notes
		}
		b.WriteString(line + "\n")
	}
	if matched {
		b.WriteString("\n")
	}
}
