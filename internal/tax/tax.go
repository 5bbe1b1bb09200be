// Package tax estimates tax liability under the supported regimes.
package tax

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finance-analyzer/statementcore/internal/model"
)

// ErrUnknownRegime is returned for a regime code the calculator does not know.
var ErrUnknownRegime = errors.New("unknown tax regime")

var hundred = decimal.NewFromInt(100)

// Regime is a named tax policy. Codes ending in "_simplified" tax gross
// income; all others tax profit.
type Regime struct {
	Code string
	Name string
	Rate decimal.Decimal // percent
}

// Simplified reports whether the regime taxes gross income.
func (r Regime) Simplified() bool {
	return strings.HasSuffix(r.Code, "_simplified")
}

// DefaultRegimes returns the built-in regimes in tie-break order.
func DefaultRegimes() []Regime {
	return []Regime{
		{Code: "ip_simplified", Name: "ИП, упрощенный режим (доход)", Rate: decimal.NewFromInt(3)},
		{Code: "ip_general", Name: "ИП, общий режим (прибыль)", Rate: decimal.NewFromInt(10)},
		{Code: "too_simplified", Name: "ТОО, упрощенный режим (доход)", Rate: decimal.NewFromInt(3)},
		{Code: "too_general", Name: "ТОО, общий режим (прибыль)", Rate: decimal.NewFromInt(20)},
	}
}

// Options configures a Calculator.
type Options struct {
	Regimes  []Regime // declaration order breaks ties when picking the optimal regime
	Current  string   // regime the taxpayer is on now, compared against the optimal one
	Currency string
}

// Calculator applies regimes to income and expense totals. It holds no
// mutable state.
type Calculator struct {
	regimes  []Regime
	byCode   map[string]Regime
	current  string
	currency string
}

// NewCalculator validates opts and builds a Calculator.
func NewCalculator(opts Options) (*Calculator, error) {
	if len(opts.Regimes) == 0 {
		return nil, errors.New("no tax regimes configured")
	}

	byCode := make(map[string]Regime, len(opts.Regimes))
	for _, r := range opts.Regimes {
		if r.Code == "" {
			return nil, errors.New("tax regime with empty code")
		}
		if r.Code == OptimalKey {
			return nil, fmt.Errorf("tax regime code %q is reserved", r.Code)
		}
		if _, dup := byCode[r.Code]; dup {
			return nil, fmt.Errorf("duplicate tax regime %q", r.Code)
		}
		if r.Rate.IsNegative() {
			return nil, fmt.Errorf("tax regime %q has negative rate %s", r.Code, r.Rate)
		}
		byCode[r.Code] = r
	}

	current := opts.Current
	if current == "" {
		current = opts.Regimes[0].Code
	}
	if _, ok := byCode[current]; !ok {
		return nil, fmt.Errorf("current regime %q: %w", current, ErrUnknownRegime)
	}

	currency := opts.Currency
	if currency == "" {
		currency = "KZT"
	}

	regimes := make([]Regime, len(opts.Regimes))
	copy(regimes, opts.Regimes)
	return &Calculator{regimes: regimes, byCode: byCode, current: current, currency: currency}, nil
}

// Default returns a Calculator over DefaultRegimes with ip_simplified current.
func Default() *Calculator {
	c, err := NewCalculator(Options{Regimes: DefaultRegimes(), Current: "ip_simplified"})
	if err != nil {
		panic(err)
	}
	return c
}

// Regimes returns the configured regimes in order.
func (c *Calculator) Regimes() []Regime {
	out := make([]Regime, len(c.regimes))
	copy(out, c.regimes)
	return out
}

// Current returns the code of the current regime.
func (c *Calculator) Current() string { return c.current }

// Estimate computes the tax owed under one regime.
func (c *Calculator) Estimate(income, expense decimal.Decimal, code string) (model.TaxEstimate, error) {
	r, ok := c.byCode[code]
	if !ok {
		return model.TaxEstimate{}, fmt.Errorf("%q: %w", code, ErrUnknownRegime)
	}
	return estimate(r, income, expense), nil
}

func estimate(r Regime, income, expense decimal.Decimal) model.TaxEstimate {
	profit := income.Sub(expense)

	base := income
	if !r.Simplified() {
		base = decimal.Max(decimal.Zero, profit)
	}
	amount := base.Mul(r.Rate).Div(hundred)

	effective := decimal.Zero
	if income.IsPositive() {
		effective = amount.Div(income).Mul(hundred)
	}

	return model.TaxEstimate{
		Regime:        r.Code,
		RegimeName:    r.Name,
		Rate:          r.Rate,
		Base:          base,
		Amount:        amount,
		EffectiveRate: effective,
		Income:        income,
		Expense:       expense,
		Profit:        profit,
	}
}

// OptimalKey is the JSON key naming the optimal regime next to the
// per-regime estimates. No regime may use it as a code.
const OptimalKey = "optimal_regime"

// AllEstimates holds one estimate per regime, in declaration order, and the
// code of the regime with the smallest tax.
type AllEstimates struct {
	Estimates []model.TaxEstimate
	Optimal   string
}

// MarshalJSON writes the estimates keyed by regime code plus OptimalKey.
func (a AllEstimates) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Estimates)+1)
	for code, e := range a.ByRegime() {
		out[code] = e
	}
	out[OptimalKey] = a.Optimal
	return json.Marshal(out)
}

// Get returns the estimate for a regime code.
func (a AllEstimates) Get(code string) (model.TaxEstimate, bool) {
	for _, e := range a.Estimates {
		if e.Regime == code {
			return e, true
		}
	}
	return model.TaxEstimate{}, false
}

// ByRegime returns the estimates keyed by regime code.
func (a AllEstimates) ByRegime() map[string]model.TaxEstimate {
	m := make(map[string]model.TaxEstimate, len(a.Estimates))
	for _, e := range a.Estimates {
		m[e.Regime] = e
	}
	return m
}

// EstimateAll computes every regime and picks the cheapest. Ties go to the
// regime declared first.
func (c *Calculator) EstimateAll(income, expense decimal.Decimal) AllEstimates {
	all := AllEstimates{Estimates: make([]model.TaxEstimate, 0, len(c.regimes))}
	var best decimal.Decimal
	for i, r := range c.regimes {
		e := estimate(r, income, expense)
		all.Estimates = append(all.Estimates, e)
		if i == 0 || e.Amount.LessThan(best) {
			best = e.Amount
			all.Optimal = r.Code
		}
	}
	return all
}
