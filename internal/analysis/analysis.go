// Package analysis aggregates classified transactions into summaries and
// reports. Every function here is pure: results are recomputed from the input
// on each call.
package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finance-analyzer/statementcore/internal/classify"
	"github.com/finance-analyzer/statementcore/internal/model"
	"github.com/finance-analyzer/statementcore/internal/period"
)

// Labeler assigns a Category to each transaction. *classify.Classifier
// satisfies it.
type Labeler interface {
	Apply(txns []model.Transaction) []model.Transaction
}

// CategoryShare is one expense category's part of the expense total.
type CategoryShare struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// SourceShare is one income source's part of the income total.
type SourceShare struct {
	Source     string          `json:"source"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ExpenseAnalysis is the summary of expense transactions plus their category
// breakdown.
type ExpenseAnalysis struct {
	model.Summary
	Categories []CategoryShare `json:"categories"`
}

// IncomeAnalysis is the summary of income transactions plus their source
// breakdown.
type IncomeAnalysis struct {
	model.Summary
	Sources []SourceShare `json:"sources"`
}

// Expenses classifies the expense transactions in txns and summarizes them.
// Income transactions are ignored.
func Expenses(l Labeler, txns []model.Transaction) ExpenseAnalysis {
	_, expense := model.Split(txns)
	labelled := l.Apply(expense)
	return ExpenseAnalysis{
		Summary:    Summarize(labelled),
		Categories: categoryShares(classify.Shares(labelled)),
	}
}

// Income classifies the income transactions in txns and summarizes them.
// Expense transactions are ignored.
func Income(l Labeler, txns []model.Transaction) IncomeAnalysis {
	income, _ := model.Split(txns)
	labelled := l.Apply(income)
	return IncomeAnalysis{
		Summary: Summarize(labelled),
		Sources: sourceShares(classify.Shares(labelled)),
	}
}

// Summarize computes totals, per-category and per-month sums, and the largest
// and smallest transactions. Transactions without a Category count as
// model.OtherLabel. An empty input yields zero values with empty, non-nil
// collections.
func Summarize(txns []model.Transaction) model.Summary {
	s := model.Summary{
		Total:      decimal.Zero,
		Average:    decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
		ByMonth:    []model.MonthAmount{},
	}
	if len(txns) == 0 {
		return s
	}

	byMonth := make(map[string]decimal.Decimal)
	for _, t := range txns {
		s.Total = s.Total.Add(t.Amount)

		label := t.Category
		if label == "" {
			label = model.OtherLabel
		}
		s.ByCategory[label] = s.ByCategory[label].Add(t.Amount)

		month := period.MonthOf(t.Date)
		byMonth[month] = byMonth[month].Add(t.Amount)
	}
	s.Count = len(txns)
	s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))

	for _, m := range period.SortedKeys(byMonth) {
		s.ByMonth = append(s.ByMonth, model.MonthAmount{Month: m, Amount: byMonth[m]})
	}

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	largest, smallest := sorted[0], sorted[len(sorted)-1]
	s.Largest, s.Smallest = &largest, &smallest
	return s
}

func categoryShares(shares []model.Share) []CategoryShare {
	out := make([]CategoryShare, len(shares))
	for i, sh := range shares {
		out[i] = CategoryShare{Category: sh.Label, Amount: sh.Amount, Percentage: sh.Percentage}
	}
	return out
}

func sourceShares(shares []model.Share) []SourceShare {
	out := make([]SourceShare, len(shares))
	for i, sh := range shares {
		out[i] = SourceShare{Source: sh.Label, Amount: sh.Amount, Percentage: sh.Percentage}
	}
	return out
}
