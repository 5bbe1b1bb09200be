package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one normalized statement line.
type Transaction struct {
	Date        time.Time       `json:"date"` // midnight UTC, time of day is not significant
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // always non-negative; direction lives in IsIncome
	IsIncome    bool            `json:"is_income"`
	Reference   string          `json:"reference,omitempty"`
	Category    string          `json:"category,omitempty"` // expense category or income source
}

// SkipReason says why a row did not become a Transaction.
type SkipReason string

const (
	SkipMissingDate   SkipReason = "missing_date"
	SkipMissingAmount SkipReason = "missing_amount"
	SkipBadDate       SkipReason = "bad_date"
	SkipBadAmount     SkipReason = "bad_amount"
	SkipZeroAmount    SkipReason = "zero_amount"
)

// ParseResult is the output of a single statement parse run.
type ParseResult struct {
	RunID        uuid.UUID
	Bank         string
	Format       string
	File         string
	Transactions []Transaction
	Skipped      map[SkipReason]int
}

// SkippedTotal returns the number of rows dropped across all reasons.
func (r *ParseResult) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

// Split separates income from expense transactions, preserving order.
func Split(txns []Transaction) (income, expense []Transaction) {
	for _, t := range txns {
		if t.IsIncome {
			income = append(income, t)
		} else {
			expense = append(expense, t)
		}
	}
	return income, expense
}
