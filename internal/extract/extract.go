// Package extract pulls raw rows and text out of statement files.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/finance-analyzer/statementcore/internal/model"
)

// ErrDecodeExhausted is returned when no encoding and delimiter combination
// produced a well-formed table.
var ErrDecodeExhausted = errors.New("all decode attempts exhausted")

// columnNames trims header cells and makes them unique. Blank headers become
// "column_N" and repeats get a ".N" suffix.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

// appendRow adds cells to t keyed by column name. Cells past the header are
// dropped and all-empty rows are skipped.
func appendRow(t *model.RawTable, cells []model.RawValue) {
	row := make(model.RawRow, len(t.Columns))
	empty := true
	for i, col := range t.Columns {
		if i >= len(cells) {
			row[col] = model.RawValue{}
			continue
		}
		row[col] = cells[i]
		if !cells[i].IsEmpty() {
			empty = false
		}
	}
	if empty {
		return
	}
	t.Rows = append(t.Rows, row)
}
