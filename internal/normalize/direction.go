package normalize

import (
	"strings"

	"github.com/finance-analyzer/statementcore/internal/fieldmap"
	"github.com/finance-analyzer/statementcore/internal/model"
)

// Directions is a pair of keyword lists naming income and expense.
type Directions struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// Resolve looks for direction keywords in text. Income keywords are checked
// first, so text matching both lists counts as income.
func (d Directions) Resolve(text string) (income, ok bool) {
	lc := strings.ToLower(text)
	if containsAny(lc, d.Income) {
		return true, true
	}
	if containsAny(lc, d.Expense) {
		return false, true
	}
	return false, false
}

// Policy holds the keywords used to decide a row's direction.
type Policy struct {
	Column      Directions `yaml:"column"`      // values of an explicit type column
	Description Directions `yaml:"description"` // description text, for sources without one
}

// DefaultPolicy returns the direction keywords shared by the built-in banks.
func DefaultPolicy() Policy {
	return Policy{
		Column: Directions{
			Income:  []string{"приход", "поступление", "income", "credit", "зачисление"},
			Expense: []string{"расход", "списание", "expense", "debit"},
		},
		Description: Directions{
			Income:  []string{"поступление", "зачисление", "возврат", "перевод на счет"},
			Expense: []string{"оплата", "списание", "снятие", "перевод со счета"},
		},
	}
}

// Direction decides whether a row is income. An explicit type value wins,
// then description keywords when the mapping asks for inference, and finally
// the sign of the raw amount.
func Direction(row model.RawRow, m fieldmap.Mapping, negative bool, p Policy) bool {
	if m.Direction != "" {
		if v := Text(row[m.Direction]); v != "" {
			if income, ok := p.Column.Resolve(v); ok {
				return income
			}
		}
	}
	if m.InferFromDescription {
		if income, ok := p.Description.Resolve(Text(row[m.Description])); ok {
			return income
		}
	}
	return !negative
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(s, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
