package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/finance-analyzer/statementcore/internal/model"
)

// displayedDate matches the rendered form of a date-formatted numeric cell.
var displayedDate = regexp.MustCompile(`^\d{1,4}[./-]\d{1,2}[./-]\d{1,4}`)

// Workbook reads the first sheet of an .xlsx or .xls file. The first row is
// the header; its cells become the column names.
func Workbook(path string) (*model.RawTable, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return readXLS(path)
	}
	return readXLSX(path)
}

func readXLSX(path string) (*model.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx %s has no sheets", filepath.Base(path))
	}

	shown, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading raw sheet %q: %w", sheets[0], err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	return tableFromGrid(shown, func(r, c int) model.RawValue {
		var rv string
		if r < len(raw) && c < len(raw[r]) {
			rv = raw[r][c]
		}
		return xlsxCell(shown[r][c], rv, date1904)
	}), nil
}

// xlsxCell types a cell using both its displayed and raw forms. A numeric raw
// value displayed as a date is a date serial.
func xlsxCell(shown, raw string, date1904 bool) model.RawValue {
	shown = strings.TrimSpace(shown)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.StringValue(shown)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return model.StringValue(shown)
	}
	if shown != raw && displayedDate.MatchString(shown) {
		if t, err := excelize.ExcelDateToTime(f, date1904); err == nil {
			return model.DateValue(dateOnly(t))
		}
	}
	return model.NumberValue(f)
}

func readXLS(path string) (t *model.RawTable, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}
	defer file.Close()

	defer func() {
		if rec := recover(); rec != nil {
			t, err = nil, fmt.Errorf("xls library crashed: %v", rec)
		}
	}()

	wb, err := xls.OpenReader(file, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("reading xls: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("xls %s has no workbook stream", filepath.Base(path))
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("xls %s has no sheets", filepath.Base(path))
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("could not get first sheet of %s", filepath.Base(path))
	}

	var grid [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		grid = append(grid, cells)
	}

	return tableFromGrid(grid, func(r, c int) model.RawValue {
		return textCell(grid[r][c])
	}), nil
}

// xlsRow returns row i, or nil when the sheet has no record for it. The
// library dereferences missing rows.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// textCell types a cell that only has a string form.
func textCell(s string) model.RawValue {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.RawValue{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.NumberValue(f)
	}
	return model.StringValue(s)
}

// tableFromGrid uses grid[0] as the header and cell to type every data cell.
func tableFromGrid(grid [][]string, cell func(r, c int) model.RawValue) *model.RawTable {
	t := &model.RawTable{}
	if len(grid) == 0 {
		return t
	}
	t.Columns = columnNames(grid[0])

	for r := 1; r < len(grid); r++ {
		cells := make([]model.RawValue, len(grid[r]))
		for c := range grid[r] {
			cells[c] = cell(r, c)
		}
		appendRow(t, cells)
	}
	return t
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
