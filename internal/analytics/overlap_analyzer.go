package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

// OverlapAnalyzer detects redundant index exposure across holdings using the
// registry's static overlap-group tables.
type OverlapAnalyzer struct {
	registry *registry.Registry
}

func NewOverlapAnalyzer(reg *registry.Registry) *OverlapAnalyzer {
	return &OverlapAnalyzer{registry: reg}
}

// OverlapPair is one detected fund pair with redundant exposure. The
// redundant value can never exceed the smaller position.
type OverlapPair struct {
	Ticker1        string          `json:"ticker_1"`
	Ticker2        string          `json:"ticker_2"`
	GroupName      string          `json:"group_name"`
	OverlapPercent decimal.Decimal `json:"overlap_percent"`
	Value1         decimal.Decimal `json:"value_1"`
	Value2         decimal.Decimal `json:"value_2"`
	RedundantValue decimal.Decimal `json:"redundant_value"`
}

// SellSuggestion marks a group member superseded by the recommended fund.
type SellSuggestion struct {
	Ticker string          `json:"ticker"`
	Value  decimal.Decimal `json:"value"`
	Reason string          `json:"reason"`
}

// DetectedOverlapGroup is one overlap group with at least two held members
// and its consolidation recommendation.
type DetectedOverlapGroup struct {
	Name            string           `json:"name"`
	Holdings        []string         `json:"holdings"`
	TotalValue      decimal.Decimal  `json:"total_value"`
	RecommendedFund string           `json:"recommended_fund"`
	SellSuggestions []SellSuggestion `json:"sell_suggestions"`
}

// TaxLossOpportunity is a consolidation sell that would realize a deductible
// loss. WashSaleWarning is set when the recommended replacement fund counts
// as substantially identical to the sold one.
type TaxLossOpportunity struct {
	Ticker          string          `json:"ticker"`
	UnrealizedLoss  decimal.Decimal `json:"unrealized_loss"`
	RecommendedFund string          `json:"recommended_fund"`
	WashSaleWarning bool            `json:"wash_sale_warning"`
	Note            string          `json:"note"`
}

// OverlapGrade is the letter grade for overall portfolio redundancy.
type OverlapGrade struct {
	Grade string `json:"grade"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// PortfolioOverlapAnalysis is the full overlap report.
type PortfolioOverlapAnalysis struct {
	OverlapPairs         []OverlapPair          `json:"overlap_pairs"`
	Groups               []DetectedOverlapGroup `json:"groups"`
	TotalRedundantValue  decimal.Decimal        `json:"total_redundant_value"`
	RedundancyPercent    decimal.Decimal        `json:"redundancy_percent"`
	TaxLossOpportunities []TaxLossOpportunity   `json:"tax_loss_opportunities"`
	Grade                OverlapGrade           `json:"grade"`
}

// tickerPosition aggregates a ticker across accounts for overlap purposes.
type tickerPosition struct {
	value decimal.Decimal
	gain  decimal.Decimal
}

// AnalyzePortfolioOverlap scans the registry's overlap groups for pairs of
// held funds tracking the same index. Positions for the same ticker across
// accounts are aggregated before pairing.
func (oa *OverlapAnalyzer) AnalyzePortfolioOverlap(holdings []models.Holding) PortfolioOverlapAnalysis {
	analysis := PortfolioOverlapAnalysis{
		OverlapPairs:         make([]OverlapPair, 0),
		Groups:               make([]DetectedOverlapGroup, 0),
		TaxLossOpportunities: make([]TaxLossOpportunity, 0),
	}

	positions := make(map[string]*tickerPosition)
	totalValue := decimal.Zero
	for i := range holdings {
		value := holdings[i].Value()
		if value.LessThanOrEqual(decimal.Zero) {
			continue
		}
		totalValue = totalValue.Add(value)
		ticker := holdings[i].NormalizedTicker()
		pos, ok := positions[ticker]
		if !ok {
			pos = &tickerPosition{}
			positions[ticker] = pos
		}
		pos.value = pos.value.Add(value)
		pos.gain = pos.gain.Add(holdings[i].UnrealizedGain())
	}

	hundred := decimal.NewFromInt(100)
	for _, group := range oa.registry.OverlapGroups() {
		members := heldGroupMembers(group, positions)
		if len(members) < 2 {
			continue
		}

		detected := DetectedOverlapGroup{
			Name:            group.Name,
			Holdings:        members,
			SellSuggestions: make([]SellSuggestion, 0, len(members)-1),
		}
		for _, ticker := range members {
			detected.TotalValue = detected.TotalValue.Add(positions[ticker].value)
		}

		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				coeff, ok := oa.registry.PairOverlap(members[i], members[j])
				if !ok || coeff.LessThanOrEqual(decimal.Zero) {
					continue
				}
				v1 := positions[members[i]].value
				v2 := positions[members[j]].value
				redundant := decimal.Min(v1, v2).Mul(coeff).Div(hundred)
				analysis.OverlapPairs = append(analysis.OverlapPairs, OverlapPair{
					Ticker1:        members[i],
					Ticker2:        members[j],
					GroupName:      group.Name,
					OverlapPercent: coeff,
					Value1:         v1,
					Value2:         v2,
					RedundantValue: redundant,
				})
				analysis.TotalRedundantValue = analysis.TotalRedundantValue.Add(redundant)
			}
		}

		detected.RecommendedFund = oa.recommendFund(members, positions)
		for _, ticker := range members {
			if ticker == detected.RecommendedFund {
				continue
			}
			suggestion := SellSuggestion{
				Ticker: ticker,
				Value:  positions[ticker].value,
				Reason: fmt.Sprintf(
					"Overlaps with %s (%s); consolidating into %s reduces redundancy at a %s%% expense ratio",
					detected.RecommendedFund, group.Name, detected.RecommendedFund,
					oa.registry.ExpenseRatio(detected.RecommendedFund).String(),
				),
			}
			detected.SellSuggestions = append(detected.SellSuggestions, suggestion)

			if loss := positions[ticker].gain; loss.LessThan(decimal.Zero) {
				warning := oa.registry.SubstantiallyIdentical(ticker, detected.RecommendedFund)
				opportunity := TaxLossOpportunity{
					Ticker:          ticker,
					UnrealizedLoss:  loss.Abs(),
					RecommendedFund: detected.RecommendedFund,
					WashSaleWarning: warning,
					Note: fmt.Sprintf("Selling %s realizes a $%s loss", ticker,
						loss.Abs().Round(2).String()),
				}
				if warning {
					opportunity.Note += fmt.Sprintf(
						"; buying %s within 30 days would trigger the wash-sale rule",
						detected.RecommendedFund)
				}
				analysis.TaxLossOpportunities = append(analysis.TaxLossOpportunities, opportunity)
			}
		}

		analysis.Groups = append(analysis.Groups, detected)
	}

	if totalValue.GreaterThan(decimal.Zero) {
		analysis.RedundancyPercent = analysis.TotalRedundantValue.Div(totalValue).Mul(hundred)
	}
	analysis.Grade = GetOverlapGrade(analysis.RedundancyPercent)

	return analysis
}

// heldGroupMembers returns the group tickers present in the portfolio,
// alphabetically ordered for stable pair enumeration.
func heldGroupMembers(group registry.OverlapGroup, positions map[string]*tickerPosition) []string {
	members := make([]string, 0, len(group.Tickers))
	for _, ticker := range group.Tickers {
		if _, ok := positions[ticker]; ok {
			members = append(members, ticker)
		}
	}
	sort.Strings(members)
	return members
}

// recommendFund picks the consolidation target: lowest expense ratio, then
// largest aggregated value, then alphabetical ticker.
func (oa *OverlapAnalyzer) recommendFund(members []string, positions map[string]*tickerPosition) string {
	best := members[0]
	for _, candidate := range members[1:] {
		bestRatio := oa.registry.ExpenseRatio(best)
		candidateRatio := oa.registry.ExpenseRatio(candidate)
		switch {
		case candidateRatio.LessThan(bestRatio):
			best = candidate
		case candidateRatio.Equal(bestRatio):
			if positions[candidate].value.GreaterThan(positions[best].value) {
				best = candidate
			} else if positions[candidate].value.Equal(positions[best].value) && candidate < best {
				best = candidate
			}
		}
	}
	return best
}

// overlapGradeBreakpoints are the fixed redundancy-percent cutoffs. The
// table is ordered and the grade is monotonic in redundancy.
var overlapGradeBreakpoints = []struct {
	limit decimal.Decimal
	grade OverlapGrade
}{
	{decimal.NewFromInt(5), OverlapGrade{Grade: "A", Label: "Minimal overlap", Color: "#22c55e"}},
	{decimal.NewFromInt(15), OverlapGrade{Grade: "B", Label: "Low overlap", Color: "#84cc16"}},
	{decimal.NewFromInt(30), OverlapGrade{Grade: "C", Label: "Moderate overlap", Color: "#eab308"}},
	{decimal.NewFromInt(50), OverlapGrade{Grade: "D", Label: "High overlap", Color: "#f97316"}},
}

// GetOverlapGrade grades portfolio redundancy: ≤5% A, ≤15% B, ≤30% C,
// ≤50% D, above that F.
func GetOverlapGrade(redundancyPercent decimal.Decimal) OverlapGrade {
	for _, bp := range overlapGradeBreakpoints {
		if redundancyPercent.LessThanOrEqual(bp.limit) {
			return bp.grade
		}
	}
	return OverlapGrade{Grade: "F", Label: "Severe overlap", Color: "#ef4444"}
}
