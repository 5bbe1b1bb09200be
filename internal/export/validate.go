package export

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finance-analyzer/statementcore/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Row         int // 1-based position in the validated slice
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [row %d]: %s", e.Invariant, e.Row, e.Description)
}

var cents = decimal.NewFromInt(100)

// Validate enforces the handoff invariants on txns:
//
//  1. amount is not negative
//  2. date is set
//  3. amount has at most 2 decimal places
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	for i, t := range txns {
		row := i + 1

		if t.Amount.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   1,
				Row:         row,
				Description: fmt.Sprintf("amount %s is negative", t.Amount),
			})
		}

		if t.Date.IsZero() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Row:         row,
				Description: "date is not set",
			})
		}

		if scaled := t.Amount.Mul(cents); !scaled.Equal(scaled.Truncate(0)) {
			errs = append(errs, ValidationError{
				Invariant:   3,
				Row:         row,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", t.Amount),
			})
		}
	}
	return errs
}
