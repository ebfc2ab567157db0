package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"maven-analytics/internal/models"
	"maven-analytics/internal/registry"
)

// FeeAnalyzer computes the cost profile of a portfolio from the registry's
// static expense-ratio table. Individual stocks resolve to a 0% ratio and
// still count toward total portfolio value, so stock-heavy portfolios show a
// diluted weighted ratio.
type FeeAnalyzer struct {
	registry *registry.Registry
}

func NewFeeAnalyzer(reg *registry.Registry) *FeeAnalyzer {
	return &FeeAnalyzer{registry: reg}
}

// Growth assumptions for the 30-year fee drag projection: 7% gross annual
// return compounded over 30 years, against the fee-adjusted net return.
const (
	feeDragGrossReturn = 0.07
	feeDragYears       = 30
)

// HoldingFee is the per-holding fee line.
type HoldingFee struct {
	Ticker       string          `json:"ticker"`
	Value        decimal.Decimal `json:"value"`
	ExpenseRatio decimal.Decimal `json:"expense_ratio"`
	AnnualFee    decimal.Decimal `json:"annual_fee"`
	Grade        string          `json:"grade"`
}

// SavingsOpportunity suggests a lower-cost substitute for a tabulated
// expensive fund.
type SavingsOpportunity struct {
	Ticker                  string          `json:"ticker"`
	CurrentExpenseRatio     decimal.Decimal `json:"current_expense_ratio"`
	AlternativeTicker       string          `json:"alternative_ticker"`
	AlternativeName         string          `json:"alternative_name"`
	AlternativeExpenseRatio decimal.Decimal `json:"alternative_expense_ratio"`
	AnnualSavings           decimal.Decimal `json:"annual_savings"`
}

// ExpenseRatioGrade is a letter grade with display metadata.
type ExpenseRatioGrade struct {
	Grade string `json:"grade"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// PortfolioFeeAnalysis is the full fee report.
type PortfolioFeeAnalysis struct {
	TotalAnnualFees        decimal.Decimal      `json:"total_annual_fees"`
	WeightedExpenseRatio   decimal.Decimal      `json:"weighted_expense_ratio"`
	ThirtyYearFeeDrag      decimal.Decimal      `json:"thirty_year_fee_drag"`
	PotentialAnnualSavings decimal.Decimal      `json:"potential_annual_savings"`
	HoldingsByFee          []HoldingFee         `json:"holdings_by_fee"`
	SavingsOpportunities   []SavingsOpportunity `json:"savings_opportunities"`
	TopExpensiveHoldings   []HoldingFee         `json:"top_expensive_holdings"`
	Grade                  ExpenseRatioGrade    `json:"grade"`
}

// AnalyzePortfolioFees computes the weighted expense ratio, fee totals, the
// 30-year compounding drag and substitute-fund savings for a holdings list.
// An empty or zero-value portfolio returns the zero report with the best
// grade, never NaN.
func (fa *FeeAnalyzer) AnalyzePortfolioFees(holdings []models.Holding) PortfolioFeeAnalysis {
	analysis := PortfolioFeeAnalysis{
		HoldingsByFee:        make([]HoldingFee, 0, len(holdings)),
		SavingsOpportunities: make([]SavingsOpportunity, 0),
		TopExpensiveHoldings: make([]HoldingFee, 0),
	}

	hundred := decimal.NewFromInt(100)
	totalValue := decimal.Zero

	for i := range holdings {
		value := holdings[i].Value()
		if value.LessThanOrEqual(decimal.Zero) {
			continue
		}
		totalValue = totalValue.Add(value)

		ticker := holdings[i].NormalizedTicker()
		ratio := fa.registry.ExpenseRatio(ticker)
		annualFee := value.Mul(ratio).Div(hundred)
		analysis.TotalAnnualFees = analysis.TotalAnnualFees.Add(annualFee)

		analysis.HoldingsByFee = append(analysis.HoldingsByFee, HoldingFee{
			Ticker:       ticker,
			Value:        value,
			ExpenseRatio: ratio,
			AnnualFee:    annualFee,
			Grade:        GetExpenseRatioGrade(ratio).Grade,
		})

		if sub, ok := fa.registry.Substitute(ticker); ok {
			savings := value.Mul(ratio.Sub(sub.ExpenseRatio)).Div(hundred)
			if savings.GreaterThan(decimal.Zero) {
				analysis.SavingsOpportunities = append(analysis.SavingsOpportunities, SavingsOpportunity{
					Ticker:                  ticker,
					CurrentExpenseRatio:     ratio,
					AlternativeTicker:       sub.Ticker,
					AlternativeName:         sub.Name,
					AlternativeExpenseRatio: sub.ExpenseRatio,
					AnnualSavings:           savings,
				})
				analysis.PotentialAnnualSavings = analysis.PotentialAnnualSavings.Add(savings)
			}
		}
	}

	if totalValue.GreaterThan(decimal.Zero) {
		// Denominator is total portfolio value, not fund value only.
		analysis.WeightedExpenseRatio = analysis.TotalAnnualFees.Div(totalValue).Mul(hundred)
		analysis.ThirtyYearFeeDrag = fa.calculateFeeDrag(totalValue, analysis.WeightedExpenseRatio)
	}

	// Deterministic ordering: highest annual fee first, ticker breaks ties.
	sort.SliceStable(analysis.HoldingsByFee, func(i, j int) bool {
		if !analysis.HoldingsByFee[i].AnnualFee.Equal(analysis.HoldingsByFee[j].AnnualFee) {
			return analysis.HoldingsByFee[i].AnnualFee.GreaterThan(analysis.HoldingsByFee[j].AnnualFee)
		}
		return analysis.HoldingsByFee[i].Ticker < analysis.HoldingsByFee[j].Ticker
	})
	sort.SliceStable(analysis.SavingsOpportunities, func(i, j int) bool {
		if !analysis.SavingsOpportunities[i].AnnualSavings.Equal(analysis.SavingsOpportunities[j].AnnualSavings) {
			return analysis.SavingsOpportunities[i].AnnualSavings.GreaterThan(analysis.SavingsOpportunities[j].AnnualSavings)
		}
		return analysis.SavingsOpportunities[i].Ticker < analysis.SavingsOpportunities[j].Ticker
	})

	for _, hf := range analysis.HoldingsByFee {
		if len(analysis.TopExpensiveHoldings) == 3 {
			break
		}
		if hf.ExpenseRatio.GreaterThan(decimal.Zero) {
			analysis.TopExpensiveHoldings = append(analysis.TopExpensiveHoldings, hf)
		}
	}

	analysis.Grade = GetExpenseRatioGrade(analysis.WeightedExpenseRatio)
	return analysis
}

// calculateFeeDrag projects the compounding cost of fees:
// total * (1.07^30 - (1.07 - ratio)^30), ratio taken as a fraction.
func (fa *FeeAnalyzer) calculateFeeDrag(totalValue, weightedRatio decimal.Decimal) decimal.Decimal {
	ratioFraction, _ := weightedRatio.Div(decimal.NewFromInt(100)).Float64()
	gross := math.Pow(1+feeDragGrossReturn, feeDragYears)
	net := math.Pow(1+feeDragGrossReturn-ratioFraction, feeDragYears)
	return totalValue.Mul(decimal.NewFromFloat(gross - net)).Round(2)
}

// Expense ratio grade breakpoints (annual percent of assets).
var expenseGradeBreakpoints = []struct {
	max   decimal.Decimal
	grade ExpenseRatioGrade
}{
	{decimal.NewFromFloat(0.05), ExpenseRatioGrade{Grade: "A", Label: "Excellent", Color: "#22c55e"}},
	{decimal.NewFromFloat(0.20), ExpenseRatioGrade{Grade: "B", Label: "Good", Color: "#84cc16"}},
	{decimal.NewFromFloat(0.50), ExpenseRatioGrade{Grade: "C", Label: "Average", Color: "#eab308"}},
	{decimal.NewFromFloat(1.00), ExpenseRatioGrade{Grade: "D", Label: "Expensive", Color: "#f97316"}},
}

// GetExpenseRatioGrade grades an expense ratio percentage on fixed
// breakpoints: ≤0.05% A, ≤0.20% B, ≤0.50% C, ≤1.00% D, above that F.
// Monotonic by construction.
func GetExpenseRatioGrade(ratio decimal.Decimal) ExpenseRatioGrade {
	for _, bp := range expenseGradeBreakpoints {
		if ratio.LessThanOrEqual(bp.max) {
			return bp.grade
		}
	}
	return ExpenseRatioGrade{Grade: "F", Label: "Very Expensive", Color: "#ef4444"}
}

// FormatFeeDrag renders the drag figure for display.
func FormatFeeDrag(drag decimal.Decimal) string {
	return fmt.Sprintf("$%s over 30 years", drag.StringFixed(0))
}
