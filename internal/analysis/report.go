package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finance-analyzer/statementcore/internal/model"
	"github.com/finance-analyzer/statementcore/internal/period"
)

const topN = 5

var (
	hundred           = decimal.NewFromInt(100)
	expenseShareLimit = decimal.RequireFromString("0.3")
	lowMargin         = decimal.NewFromInt(15)
	highMargin        = decimal.NewFromInt(50)
)

// MonthFlow is the income, expense and profit of one YYYY-MM bucket.
type MonthFlow struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// Advice is a business recommendation. Higher Importance means more urgent.
type Advice struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Importance  int    `json:"importance"`
}

// Report is the detailed view over one set of statements.
type Report struct {
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	ProfitMargin    decimal.Decimal `json:"profit_margin"`
	RecommendedTax  decimal.Decimal `json:"recommended_tax_amount"`
	TopIncome       []SourceShare   `json:"top_income_sources"`
	TopExpense      []CategoryShare `json:"top_expense_categories"`
	Monthly         []MonthFlow     `json:"monthly_summary"`
	Recommendations []Advice        `json:"recommendations"`
}

// BuildReport combines the expense and income analyses with the tax estimate
// for the current regime.
func BuildReport(exp ExpenseAnalysis, inc IncomeAnalysis, tax model.TaxEstimate, currency string) Report {
	r := Report{
		TotalIncome:    inc.Total,
		TotalExpense:   exp.Total,
		NetProfit:      inc.Total.Sub(exp.Total),
		ProfitMargin:   decimal.Zero,
		RecommendedTax: tax.Amount,
		TopIncome:      top(inc.Sources),
		TopExpense:     top(exp.Categories),
		Monthly:        monthly(inc.ByMonth, exp.ByMonth),
	}
	if r.TotalIncome.IsPositive() {
		r.ProfitMargin = r.NetProfit.Div(r.TotalIncome).Mul(hundred)
	}
	r.Recommendations = advise(r, currency)
	return r
}

func top[S any](shares []S) []S {
	n := min(len(shares), topN)
	out := make([]S, n)
	copy(out, shares[:n])
	return out
}

func monthly(income, expense []model.MonthAmount) []MonthFlow {
	flows := make(map[string]*MonthFlow)
	get := func(m string) *MonthFlow {
		f, ok := flows[m]
		if !ok {
			f = &MonthFlow{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
			flows[m] = f
		}
		return f
	}
	for _, m := range income {
		f := get(m.Month)
		f.Income = f.Income.Add(m.Amount)
	}
	for _, m := range expense {
		f := get(m.Month)
		f.Expense = f.Expense.Add(m.Amount)
	}

	out := make([]MonthFlow, 0, len(flows))
	for _, m := range period.SortedKeys(flows) {
		f := flows[m]
		f.Profit = f.Income.Sub(f.Expense)
		out = append(out, *f)
	}
	return out
}

func advise(r Report, currency string) []Advice {
	advice := []Advice{{
		Type:        "tax",
		Title:       "Оплата налогов",
		Description: fmt.Sprintf("Рекомендуется отложить %s %s на оплату налогов.", r.RecommendedTax.StringFixed(2), currency),
		Importance:  5,
	}}

	if len(r.TopExpense) > 0 {
		highest := r.TopExpense[0]
		if highest.Amount.GreaterThan(r.TotalIncome.Mul(expenseShareLimit)) {
			advice = append(advice, Advice{
				Type:  "expense",
				Title: fmt.Sprintf("Высокие расходы в категории '%s'", highest.Category),
				Description: fmt.Sprintf("Расходы в категории '%s' составляют более 30%% от общего дохода. "+
					"Рассмотрите возможность оптимизации.", highest.Category),
				Importance: 4,
			})
		}
	}

	margin := r.ProfitMargin.StringFixed(2)
	switch {
	case r.ProfitMargin.LessThan(lowMargin):
		advice = append(advice, Advice{
			Type:  "general",
			Title: "Низкая рентабельность",
			Description: fmt.Sprintf("Маржа прибыли составляет %s%%, что ниже рекомендуемого значения (15%%). "+
				"Рассмотрите возможности увеличения доходов или снижения расходов.", margin),
			Importance: 4,
		})
	case r.ProfitMargin.GreaterThan(highMargin):
		advice = append(advice, Advice{
			Type:        "general",
			Title:       "Высокая рентабельность",
			Description: fmt.Sprintf("Маржа прибыли составляет %s%%, что значительно выше среднего. Отличный результат!", margin),
			Importance:  3,
		})
	}
	return advice
}
