// Package normalize turns mapped raw rows into validated transactions.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/finance-analyzer/statementcore/internal/fieldmap"
	"github.com/finance-analyzer/statementcore/internal/model"
)

// dateLayouts are tried in order; single-digit days and months are accepted.
var dateLayouts = []string{"2.1.2006", "2006-1-2", "2/1/2006"}

// Outcome is the fate of one row: a transaction, or the reason it was skipped.
type Outcome struct {
	Transaction model.Transaction
	Skip        model.SkipReason
}

// Accepted reports whether the row produced a transaction.
func (o Outcome) Accepted() bool {
	return o.Skip == ""
}

// Result holds the accepted transactions of a table and a per-reason tally of
// the rows that were dropped.
type Result struct {
	Transactions []model.Transaction
	Skipped      map[model.SkipReason]int
}

// Rows normalizes every row. Bad rows never abort the batch.
func Rows(rows []model.RawRow, m fieldmap.Mapping, p Policy) Result {
	res := Result{Skipped: make(map[model.SkipReason]int)}
	for _, row := range rows {
		out := Row(row, m, p)
		if !out.Accepted() {
			res.Skipped[out.Skip]++
			continue
		}
		res.Transactions = append(res.Transactions, out.Transaction)
	}
	return res
}

// Row converts a single mapped row.
func Row(row model.RawRow, m fieldmap.Mapping, p Policy) Outcome {
	dv, av := row[m.Date], row[m.Amount]
	if dv.IsEmpty() {
		return Outcome{Skip: model.SkipMissingDate}
	}
	if av.IsEmpty() {
		return Outcome{Skip: model.SkipMissingAmount}
	}

	date, ok := Date(dv)
	if !ok {
		return Outcome{Skip: model.SkipBadDate}
	}
	amount, negative, ok := Amount(av)
	if !ok {
		return Outcome{Skip: model.SkipBadAmount}
	}
	if amount.IsZero() {
		return Outcome{Skip: model.SkipZeroAmount}
	}

	return Outcome{Transaction: model.Transaction{
		Date:        date,
		Description: Text(row[m.Description]),
		Amount:      amount,
		IsIncome:    Direction(row, m, negative, p),
		Reference:   Text(row[m.Reference]),
	}}
}

// Date parses a date cell. Strings use their first whitespace-separated token
// so trailing times are ignored.
func Date(v model.RawValue) (time.Time, bool) {
	if v.Kind == model.KindDate {
		return midnight(v.Time), true
	}
	if v.Kind != model.KindString {
		return time.Time{}, false
	}

	s := strings.TrimSpace(v.Text)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return midnight(t), true
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, fields[0]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Amount parses an amount cell into its magnitude and whether it was negative.
// Text keeps only digits and separators; a minus before the first digit marks
// the value negative. When both '.' and ',' occur the right-most one is the
// decimal separator, otherwise ',' is treated as one.
func Amount(v model.RawValue) (magnitude decimal.Decimal, negative, ok bool) {
	switch v.Kind {
	case model.KindNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return decimal.Zero, false, false
		}
		d := decimal.NewFromFloat(v.Number)
		return d.Abs(), d.IsNegative(), true
	case model.KindString:
		return parseAmount(v.Text)
	}
	return decimal.Zero, false, false
}

func parseAmount(s string) (decimal.Decimal, bool, bool) {
	negative := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			break
		}
		if r == '-' || r == '−' {
			negative = true
			break
		}
	}

	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return decimal.Zero, false, false
	}

	dot, comma := strings.LastIndex(cleaned, "."), strings.LastIndex(cleaned, ",")
	if dot >= 0 && comma >= 0 {
		sep := max(dot, comma)
		whole := strings.NewReplacer(".", "", ",", "").Replace(cleaned[:sep])
		cleaned = whole + "." + cleaned[sep+1:]
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, false
	}
	return d, negative, true
}

// Text renders any cell as a trimmed string.
func Text(v model.RawValue) string {
	switch v.Kind {
	case model.KindString:
		return strings.TrimSpace(v.Text)
	case model.KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case model.KindDate:
		return v.Time.Format("2006-01-02")
	}
	return ""
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
