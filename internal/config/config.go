package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finance-analyzer/statementcore/internal/classify"
	"github.com/finance-analyzer/statementcore/internal/tax"
)

// FileName is the workspace configuration file.
const FileName = "statementcore.yaml"

// Config represents the top-level statementcore.yaml configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Currency  string          `yaml:"currency"`
	Tax       TaxConfig       `yaml:"tax"`
	Rules     RulesConfig     `yaml:"rules"`
	Log       LogConfig       `yaml:"log"`
}

// WorkspaceConfig identifies the taxpayer and their bank.
type WorkspaceConfig struct {
	Name string `yaml:"name"`
	Bank string `yaml:"bank"` // default bank code for parse and batch
}

// TaxConfig lists the regimes to compare and the one currently in use.
type TaxConfig struct {
	CurrentRegime string         `yaml:"current_regime"`
	Regimes       []RegimeConfig `yaml:"regimes"`
}

// RegimeConfig is one tax regime. Codes ending in "_simplified" tax gross income.
type RegimeConfig struct {
	Code string          `yaml:"code"`
	Name string          `yaml:"name"`
	Rate decimal.Decimal `yaml:"rate"` // percent
}

// RulesConfig points at the classification rule files, relative to the
// workspace root. Empty means the built-in rules.
type RulesConfig struct {
	ExpenseFile string `yaml:"expense_file"`
	IncomeFile  string `yaml:"income_file"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load reads a statementcore.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(name, bank string) *Config {
	var regimes []RegimeConfig
	for _, r := range tax.DefaultRegimes() {
		regimes = append(regimes, RegimeConfig{Code: r.Code, Name: r.Name, Rate: r.Rate})
	}
	return &Config{
		Workspace: WorkspaceConfig{Name: name, Bank: bank},
		Currency:  "KZT",
		Tax: TaxConfig{
			CurrentRegime: regimes[0].Code,
			Regimes:       regimes,
		},
		Rules: RulesConfig{
			ExpenseFile: "rules/expense-rules.yaml",
			IncomeFile:  "rules/income-rules.yaml",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Calculator builds a tax calculator from the tax section. An empty regime
// list means the built-in regimes.
func (c *Config) Calculator() (*tax.Calculator, error) {
	regimes := tax.DefaultRegimes()
	if len(c.Tax.Regimes) > 0 {
		regimes = make([]tax.Regime, len(c.Tax.Regimes))
		for i, r := range c.Tax.Regimes {
			regimes[i] = tax.Regime{Code: r.Code, Name: r.Name, Rate: r.Rate}
		}
	}
	calc, err := tax.NewCalculator(tax.Options{
		Regimes:  regimes,
		Current:  c.Tax.CurrentRegime,
		Currency: c.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("tax config: %w", err)
	}
	return calc, nil
}

// Classifiers builds the expense and income classifiers, reading rule files
// relative to root.
func (c *Config) Classifiers(root string) (expense, income *classify.Classifier, err error) {
	expRules, err := loadRules(root, c.Rules.ExpenseFile, classify.DefaultExpenseRules)
	if err != nil {
		return nil, nil, err
	}
	incRules, err := loadRules(root, c.Rules.IncomeFile, classify.DefaultIncomeRules)
	if err != nil {
		return nil, nil, err
	}
	return classify.NewClassifier(expRules), classify.NewClassifier(incRules), nil
}

func loadRules(root, file string, fallback func() classify.RuleSet) (classify.RuleSet, error) {
	if file == "" {
		return fallback(), nil
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(root, file)
	}
	return classify.LoadRules(file)
}
