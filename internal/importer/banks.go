package importer

import (
	"regexp"

	"github.com/finance-analyzer/statementcore/internal/fieldmap"
	"github.com/finance-analyzer/statementcore/internal/normalize"
)

// Bank codes with built-in profiles.
const (
	BankKaspi = "KASPI"
	BankHalyk = "HALYK"
)

// Profile holds everything bank-specific about reading a statement: header
// keywords for tables, line patterns for text, and direction keywords.
type Profile struct {
	Code     string
	Keywords fieldmap.Keywords
	Policy   normalize.Policy
	Layout   fieldmap.TextLayout
}

// Lines carrying a currency marker but no explicit direction. Direction is
// inferred from the description.
var currencyLine = regexp.MustCompile(
	`(?P<date>\d{2}\.\d{2}\.\d{4})\s+(?P<description>.+?)\s+(?P<amount>[\d\s,.]+)\s*(?P<currency>KZT|тг|₸)`)

// KaspiProfile describes Kaspi Bank exports. PDF lines end with an explicit
// приход/расход marker.
func KaspiProfile() Profile {
	p := Profile{
		Code:     BankKaspi,
		Keywords: fieldmap.DefaultKeywords(),
		Policy:   normalize.DefaultPolicy(),
		Layout: fieldmap.TextLayout{
			Primary: regexp.MustCompile(
				`(?i)(?P<date>\d{2}\.\d{2}\.\d{4})\s+(?P<description>.+?)\s+(?P<amount>[\d\s,.]+)\s*(?P<currency>тг|₸)?\s+(?P<direction>приход|расход)`),
			Fallback: currencyLine,
		},
	}
	p.Policy.Column.Income = append(p.Policy.Column.Income, "пополнение")
	p.Policy.Column.Expense = append(p.Policy.Column.Expense, "покупка", "снятие")
	// Fallback lines carry no sign, so operation verbs in the description
	// decide the direction.
	p.Policy.Description.Income = append(p.Policy.Description.Income, "пополнение")
	p.Policy.Description.Expense = append(p.Policy.Description.Expense, "покупка")
	return p
}

// HalykProfile describes Halyk Bank exports. PDF lines carry an operation
// date, an optional processing date and a signed amount.
func HalykProfile() Profile {
	p := Profile{
		Code:     BankHalyk,
		Keywords: fieldmap.DefaultKeywords(),
		Policy:   normalize.DefaultPolicy(),
		Layout: fieldmap.TextLayout{
			Primary: regexp.MustCompile(
				`(?P<date>\d{2}\.\d{2}\.\d{4})\s+(?:\d{2}\.\d{2}\.\d{4}\s+)?(?P<description>.+?)\s+(?P<amount>[-+−]\s?\d[\d\s]*[.,]\d{2})\s*(?P<currency>KZT|тг|₸)`),
			Fallback: currencyLine,
		},
	}
	p.Keywords.Direction = append(p.Keywords.Direction, "вид операции")
	p.Keywords.Reference = append(p.Keywords.Reference, "документ")
	return p
}
