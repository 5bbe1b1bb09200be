package model

import "github.com/shopspring/decimal"

// TaxEstimate is the result of applying one tax regime to an income/expense pair.
type TaxEstimate struct {
	Regime        string          `json:"tax_regime"`
	RegimeName    string          `json:"tax_regime_name"`
	Rate          decimal.Decimal `json:"tax_rate"`
	Base          decimal.Decimal `json:"tax_base"`
	Amount        decimal.Decimal `json:"tax_amount"`
	EffectiveRate decimal.Decimal `json:"effective_tax_rate"`
	Income        decimal.Decimal `json:"income"`
	Expense       decimal.Decimal `json:"expense"`
	Profit        decimal.Decimal `json:"profit"`
}
