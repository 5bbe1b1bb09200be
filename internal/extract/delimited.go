package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/finance-analyzer/statementcore/internal/model"
)

// Dialect records the encoding and delimiter that decoded a delimited file.
type Dialect struct {
	Encoding  string
	Delimiter rune
}

type decoder struct {
	name   string
	decode func([]byte) (string, bool)
}

// Attempt order matters: UTF-8 is strict, Windows-1251 rejects the byte it
// leaves unassigned and Latin-1 accepts anything.
var decoders = []decoder{
	{"utf-8", decodeUTF8},
	{"windows-1251", decodeCharmap(charmap.Windows1251, 0x98)},
	{"latin1", decodeCharmap(charmap.ISO8859_1)},
}

var delimiters = []rune{',', ';', '\t'}

// errMalformed marks a decoded text that did not form a usable table.
var errMalformed = errors.New("malformed table")

// Delimited reads a CSV-like statement, trying each encoding and delimiter
// until one yields a well-formed table with at least two columns.
func Delimited(path string) (*model.RawTable, Dialect, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("reading csv: %w", err)
	}
	return DecodeDelimited(data)
}

// DecodeDelimited is Delimited over in-memory content.
func DecodeDelimited(data []byte) (*model.RawTable, Dialect, error) {
	for _, dec := range decoders {
		text, ok := dec.decode(data)
		if !ok {
			continue
		}
		text = strings.TrimPrefix(text, "\ufeff")
		for _, delim := range delimiters {
			t, err := parseDelimited(text, delim)
			if err != nil {
				continue
			}
			return t, Dialect{Encoding: dec.name, Delimiter: delim}, nil
		}
	}
	return nil, Dialect{}, ErrDecodeExhausted
}

func parseDelimited(text string, delim rune) (*model.RawTable, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformed, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", errMalformed)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: %d column(s)", errMalformed, len(header))
	}

	t := &model.RawTable{Columns: columnNames(header)}
	for i, rec := range records[1:] {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", errMalformed, i+2, len(rec), len(header))
		}
		cells := make([]model.RawValue, len(rec))
		for c, s := range rec {
			cells[c] = model.StringValue(strings.TrimSpace(s))
		}
		appendRow(t, cells)
	}
	return t, nil
}

func decodeUTF8(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// decodeCharmap decodes with cm, failing on any of the unassigned bytes or
// on a replacement character in the output.
func decodeCharmap(cm *charmap.Charmap, unassigned ...byte) func([]byte) (string, bool) {
	return func(b []byte) (string, bool) {
		for _, u := range unassigned {
			if bytes.IndexByte(b, u) >= 0 {
				return "", false
			}
		}
		out, err := cm.NewDecoder().Bytes(b)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			return "", false
		}
		return string(out), true
	}
}
