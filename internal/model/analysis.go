package model

import "github.com/shopspring/decimal"

// OtherLabel is assigned when no classification rule matches.
const OtherLabel = "Другое"

// MonthAmount is the summed amount for one YYYY-MM bucket.
type MonthAmount struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary aggregates a set of transactions. It is always recomputed from scratch.
type Summary struct {
	Total      decimal.Decimal            `json:"total"`
	Count      int                        `json:"count"`
	Average    decimal.Decimal            `json:"average"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
	ByMonth    []MonthAmount              `json:"by_month"`
	Largest    *Transaction               `json:"largest"`
	Smallest   *Transaction               `json:"smallest"`
}

// Share is one label's slice of a classified total.
type Share struct {
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}
