package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/finance-analyzer/statementcore/internal/classify"
	"github.com/finance-analyzer/statementcore/internal/model"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// label sets each transaction's Category with the classifier for its direction.
func label(expense, income *classify.Classifier, txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		if t.IsIncome {
			t.Category = income.Label(t.Description)
		} else {
			t.Category = expense.Label(t.Description)
		}
		out[i] = t
	}
	return out
}

// unclassified counts transactions left with their classifier's fallback label.
func unclassified(expense, income *classify.Classifier, txns []model.Transaction) int {
	n := 0
	for _, t := range txns {
		c := expense
		if t.IsIncome {
			c = income
		}
		if t.Category == c.Fallback() {
			n++
		}
	}
	return n
}

// skipSummary renders a skip tally as "reason=n" pairs in reason order.
func skipSummary(skipped map[model.SkipReason]int) string {
	if len(skipped) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(skipped))
	for reason, n := range skipped {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
