package importer

import (
	"context"
	"strings"

	"github.com/finance-analyzer/statementcore/internal/extract"
	"github.com/finance-analyzer/statementcore/internal/fieldmap"
	"github.com/finance-analyzer/statementcore/internal/logger"
	"github.com/finance-analyzer/statementcore/internal/model"
	"github.com/finance-analyzer/statementcore/internal/normalize"
)

// Supported statement file extensions.
const (
	FormatPDF  = "pdf"
	FormatXLS  = "xls"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// TableParser reads spreadsheet and delimited statements.
type TableParser struct {
	profile Profile
	format  string
}

// NewTableParser creates a parser for one of FormatXLS, FormatXLSX or FormatCSV.
func NewTableParser(profile Profile, format string) *TableParser {
	return &TableParser{profile: profile, format: strings.ToLower(format)}
}

// Format returns the file extension handled.
func (p *TableParser) Format() string { return p.format }

// BankCode returns the bank handled.
func (p *TableParser) BankCode() string { return p.profile.Code }

// Parse extracts the first table of the file, maps its columns and
// normalizes every row.
func (p *TableParser) Parse(ctx context.Context, path string) (*model.ParseResult, error) {
	log := logger.FromContext(ctx)

	var (
		table *model.RawTable
		err   error
	)
	if p.format == FormatCSV {
		var dialect extract.Dialect
		table, dialect, err = extract.Delimited(path)
		if err == nil {
			log.Debug().
				Str("encoding", dialect.Encoding).
				Str("delimiter", string(dialect.Delimiter)).
				Msg("csv dialect detected")
		}
	} else {
		table, err = extract.Workbook(path)
	}
	if err != nil {
		return nil, err
	}

	m, err := fieldmap.Columns(table, p.profile.Keywords)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("date", m.Date).
		Str("amount", m.Amount).
		Str("direction", m.Direction).
		Str("description", m.Description).
		Msg("columns mapped")

	return newResult(p.profile.Code, p.format, path, normalize.Rows(table.Rows, m, p.profile.Policy)), nil
}

func newResult(bank, format, path string, r normalize.Result) *model.ParseResult {
	return &model.ParseResult{
		Bank:         bank,
		Format:       format,
		File:         path,
		Transactions: r.Transactions,
		Skipped:      r.Skipped,
	}
}

// TextParser reads PDF statements by matching the profile's line patterns
// against the extracted text.
type TextParser struct {
	profile Profile
}

// NewTextParser creates a PDF parser.
func NewTextParser(profile Profile) *TextParser {
	return &TextParser{profile: profile}
}

// Format returns FormatPDF.
func (p *TextParser) Format() string { return FormatPDF }

// BankCode returns the bank handled.
func (p *TextParser) BankCode() string { return p.profile.Code }

// Parse extracts the text of every page and normalizes each matched line.
func (p *TextParser) Parse(ctx context.Context, path string) (*model.ParseResult, error) {
	text, err := extract.PDFText(path)
	if err != nil {
		return nil, err
	}
	return p.parseText(ctx, path, text)
}

func (p *TextParser) parseText(ctx context.Context, path, text string) (*model.ParseResult, error) {
	rows, m, err := fieldmap.Text(text, p.profile.Layout)
	if err != nil {
		return nil, err
	}
	if m.InferFromDescription {
		log := logger.FromContext(ctx)
		log.Warn().
			Str("bank", p.profile.Code).
			Int("lines", len(rows)).
			Msg("primary line pattern matched nothing, using fallback")
	}

	return newResult(p.profile.Code, FormatPDF, path, normalize.Rows(rows, m, p.profile.Policy)), nil
}
