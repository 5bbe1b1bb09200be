package classify

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/finance-analyzer/statementcore/internal/model"
)

//go:embed rules/expense.yaml
var expenseYAML []byte

//go:embed rules/income.yaml
var incomeYAML []byte

// Rule selects Label for any description containing one of Keywords.
type Rule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords,flow"`
}

// RuleSet is an ordered rule list. Declaration order is the tie-break.
type RuleSet struct {
	Fallback string `yaml:"fallback"`
	Rules    []Rule `yaml:"rules"`
}

// Labels returns every rule label in order, followed by the fallback.
func (rs RuleSet) Labels() []string {
	labels := make([]string, 0, len(rs.Rules)+1)
	for _, r := range rs.Rules {
		labels = append(labels, r.Label)
	}
	return append(labels, rs.Fallback)
}

// Clone returns a deep copy.
func (rs RuleSet) Clone() RuleSet {
	out := RuleSet{Fallback: rs.Fallback, Rules: make([]Rule, len(rs.Rules))}
	for i, r := range rs.Rules {
		out.Rules[i] = Rule{Label: r.Label, Keywords: slices.Clone(r.Keywords)}
	}
	return out
}

// ParseRules decodes and validates a YAML rule set. A missing fallback
// defaults to model.OtherLabel.
func ParseRules(data []byte) (RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("parsing rules: %w", err)
	}
	if rs.Fallback == "" {
		rs.Fallback = model.OtherLabel
	}

	seen := make(map[string]bool, len(rs.Rules))
	for i, r := range rs.Rules {
		if r.Label == "" {
			return RuleSet{}, fmt.Errorf("rule %d: empty label", i+1)
		}
		if seen[r.Label] {
			return RuleSet{}, fmt.Errorf("rule %d: duplicate label %q", i+1, r.Label)
		}
		seen[r.Label] = true
	}
	return rs, nil
}

// LoadRules reads a rule set from a YAML file.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("reading rules: %w", err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		return RuleSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// SaveRules writes a rule set to a YAML file.
func SaveRules(path string, rs RuleSet) error {
	data, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

var (
	defaultExpense = sync.OnceValue(func() RuleSet { return mustParse("expense", expenseYAML) })
	defaultIncome  = sync.OnceValue(func() RuleSet { return mustParse("income", incomeYAML) })
)

// DefaultExpenseRules returns a copy of the built-in expense categories.
func DefaultExpenseRules() RuleSet {
	return defaultExpense().Clone()
}

// DefaultIncomeRules returns a copy of the built-in income sources.
func DefaultIncomeRules() RuleSet {
	return defaultIncome().Clone()
}

func mustParse(name string, data []byte) RuleSet {
	rs, err := ParseRules(data)
	if err != nil {
		panic(fmt.Sprintf("embedded %s rules: %v", name, err))
	}
	return rs
}
