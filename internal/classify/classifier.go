// Package classify assigns expense categories and income sources to
// transactions by keyword rules.
package classify

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finance-analyzer/statementcore/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Classifier labels descriptions with the first matching rule. It is safe for
// concurrent use; its rules are never modified after construction.
type Classifier struct {
	fallback string
	rules    []Rule
}

// NewClassifier builds a Classifier over a private, lower-cased copy of rs.
func NewClassifier(rs RuleSet) *Classifier {
	rules := make([]Rule, len(rs.Rules))
	for i, r := range rs.Rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(k); k != "" {
				kws = append(kws, k)
			}
		}
		rules[i] = Rule{Label: r.Label, Keywords: kws}
	}
	fallback := rs.Fallback
	if fallback == "" {
		fallback = model.OtherLabel
	}
	return &Classifier{fallback: fallback, rules: rules}
}

// Fallback returns the label used when no rule matches.
func (c *Classifier) Fallback() string {
	return c.fallback
}

// Label returns the label of the first rule with a keyword contained in the
// lower-cased description.
func (c *Classifier) Label(description string) string {
	desc := strings.ToLower(description)
	for _, r := range c.rules {
		for _, k := range r.Keywords {
			if strings.Contains(desc, k) {
				return r.Label
			}
		}
	}
	return c.fallback
}

// Apply returns copies of txns with Category set from their descriptions.
func (c *Classifier) Apply(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		t.Category = c.Label(t.Description)
		out[i] = t
	}
	return out
}

// Shares sums amounts per Category and returns each label's share of the
// total, largest first. Labels with equal amounts keep first-seen order.
// Unlabelled transactions count as model.OtherLabel.
func Shares(txns []model.Transaction) []model.Share {
	var shares []model.Share
	index := make(map[string]int)
	total := decimal.Zero
	for _, t := range txns {
		label := t.Category
		if label == "" {
			label = model.OtherLabel
		}
		i, ok := index[label]
		if !ok {
			i = len(shares)
			index[label] = i
			shares = append(shares, model.Share{Label: label, Amount: decimal.Zero})
		}
		shares[i].Amount = shares[i].Amount.Add(t.Amount)
		total = total.Add(t.Amount)
	}

	for i := range shares {
		shares[i].Percentage = percent(shares[i].Amount, total)
	}
	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].Amount.GreaterThan(shares[b].Amount)
	})
	return shares
}

// percent returns part/total*100, or zero when total is zero.
func percent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}
