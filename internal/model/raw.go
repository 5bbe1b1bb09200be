package model

import "time"

// ValueKind is the type of a cell pulled out of a statement file.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindString
	KindNumber
	KindDate
)

// RawValue is a single untyped cell. Only the field matching Kind is set.
type RawValue struct {
	Kind   ValueKind
	Text   string
	Number float64
	Time   time.Time
}

// StringValue wraps s, mapping blank strings to an empty value.
func StringValue(s string) RawValue {
	if s == "" {
		return RawValue{}
	}
	return RawValue{Kind: KindString, Text: s}
}

// NumberValue wraps a numeric cell.
func NumberValue(f float64) RawValue {
	return RawValue{Kind: KindNumber, Number: f}
}

// DateValue wraps a date cell.
func DateValue(t time.Time) RawValue {
	return RawValue{Kind: KindDate, Time: t}
}

// IsEmpty reports whether the cell carries no value.
func (v RawValue) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// RawRow maps a column name to its cell.
type RawRow map[string]RawValue

// RawTable is an extracted sheet or delimited file. Columns keeps header order.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}
