package fieldmap

import (
	"regexp"
	"strings"

	"github.com/finance-analyzer/statementcore/internal/model"
)

// TextLayout holds the line patterns of an unstructured statement. Patterns
// use the named groups date, description, amount and optionally currency,
// direction and reference.
type TextLayout struct {
	Primary  *regexp.Regexp
	Fallback *regexp.Regexp // used only when Primary matches nothing; may be nil
}

// Text applies the layout to statement text and returns one row per match,
// keyed by group name, with the matching Mapping. A fallback match infers
// direction from the description.
func Text(text string, layout TextLayout) ([]model.RawRow, Mapping, error) {
	if rows := matchAll(layout.Primary, text); len(rows) > 0 {
		return rows, groupMapping(layout.Primary), nil
	}
	if layout.Fallback != nil {
		if rows := matchAll(layout.Fallback, text); len(rows) > 0 {
			m := groupMapping(layout.Fallback)
			m.InferFromDescription = true
			return rows, m, nil
		}
	}
	return nil, Mapping{}, ErrUnrecognized
}

func matchAll(re *regexp.Regexp, text string) []model.RawRow {
	if re == nil {
		return nil
	}
	names := re.SubexpNames()

	var rows []model.RawRow
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		row := make(model.RawRow, len(names))
		for i, name := range names {
			if name == "" {
				continue
			}
			row[name] = model.StringValue(strings.TrimSpace(match[i]))
		}
		rows = append(rows, row)
	}
	return rows
}

// groupMapping maps each canonical field to the group of the same name.
func groupMapping(re *regexp.Regexp) Mapping {
	var m Mapping
	for _, name := range re.SubexpNames() {
		switch name {
		case "date":
			m.Date = name
		case "description":
			m.Description = name
		case "amount":
			m.Amount = name
		case "direction":
			m.Direction = name
		case "reference":
			m.Reference = name
		}
	}
	return m
}
