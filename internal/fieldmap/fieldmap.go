// Package fieldmap locates the canonical transaction fields inside extracted
// statement tables and text.
package fieldmap

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/finance-analyzer/statementcore/internal/model"
)

// ErrUnrecognized is returned when the date or amount field cannot be found.
var ErrUnrecognized = errors.New("mandatory fields not found")

// Keywords holds lower-case header substrings for each canonical field.
type Keywords struct {
	Date        []string `yaml:"date"`
	Description []string `yaml:"description"`
	Amount      []string `yaml:"amount"`
	Direction   []string `yaml:"direction"`
	Reference   []string `yaml:"reference"`
}

// DefaultKeywords returns the header keywords shared by the built-in banks.
func DefaultKeywords() Keywords {
	return Keywords{
		Date:        []string{"дата", "date"},
		Description: []string{"описание", "назначение", "детали", "description", "purpose"},
		Amount:      []string{"сумма", "amount", "sum"},
		Direction:   []string{"тип", "type", "приход", "расход", "операция", "credit", "debit"},
		Reference:   []string{"референс", "reference", "номер", "number"},
	}
}

// Mapping names the source column of each canonical field. Empty means absent.
type Mapping struct {
	Date        string
	Description string
	Amount      string
	Direction   string
	Reference   string

	// InferFromDescription is set when direction must be guessed from the
	// description text rather than read from a column.
	InferFromDescription bool
}

var sniffDate = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}`)

// Columns maps table headers to canonical fields. Fields resolve in the order
// date, amount, direction, description, reference; each takes the first
// unclaimed column whose lower-cased header contains one of its keywords.
// Date and amount fall back to sniffing cell contents.
func Columns(t *model.RawTable, kw Keywords) (Mapping, error) {
	claimed := make(map[string]bool, len(t.Columns))
	pick := func(words []string) string {
		for _, col := range t.Columns {
			if claimed[col] {
				continue
			}
			lc := strings.ToLower(col)
			for _, w := range words {
				if strings.Contains(lc, w) {
					claimed[col] = true
					return col
				}
			}
		}
		return ""
	}

	var m Mapping
	m.Date = pick(kw.Date)
	m.Amount = pick(kw.Amount)
	m.Direction = pick(kw.Direction)
	m.Description = pick(kw.Description)
	m.Reference = pick(kw.Reference)

	if m.Date == "" {
		m.Date = sniff(t, claimed, looksLikeDate)
	}
	if m.Amount == "" {
		m.Amount = sniff(t, claimed, looksLikeAmount)
	}
	if m.Date == "" || m.Amount == "" {
		return Mapping{}, ErrUnrecognized
	}
	return m, nil
}

// sniff returns the first unclaimed column, scanning rows in order, holding a
// cell accepted by match.
func sniff(t *model.RawTable, claimed map[string]bool, match func(model.RawValue) bool) string {
	for _, row := range t.Rows {
		for _, col := range t.Columns {
			if claimed[col] {
				continue
			}
			if match(row[col]) {
				claimed[col] = true
				return col
			}
		}
	}
	return ""
}

func looksLikeDate(v model.RawValue) bool {
	switch v.Kind {
	case model.KindDate:
		return true
	case model.KindString:
		return sniffDate.MatchString(strings.TrimSpace(v.Text))
	}
	return false
}

func looksLikeAmount(v model.RawValue) bool {
	switch v.Kind {
	case model.KindNumber:
		return v.Number != 0
	case model.KindString:
		s := strings.ReplaceAll(strings.ReplaceAll(v.Text, " ", ""), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		return err == nil && f != 0
	}
	return false
}
