package normalize

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-analyzer/statementcore/internal/fieldmap"
	"github.com/finance-analyzer/statementcore/internal/model"
)

func str(s string) model.RawValue { return model.StringValue(s) }

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestDate(t *testing.T) {
	tests := []struct {
		in   model.RawValue
		want time.Time
		ok   bool
	}{
		{str("01.01.2024"), date(2024, 1, 1), true},
		{str("1.2.2024"), date(2024, 2, 1), true},
		{str("2024-03-15"), date(2024, 3, 15), true},
		{str("15/03/2024"), date(2024, 3, 15), true},
		{str("15.03.2024 14:22:01"), date(2024, 3, 15), true},
		{str("2024-03-15T10:00:00+05:00"), date(2024, 3, 15), true},
		{model.DateValue(time.Date(2024, 5, 6, 17, 30, 0, 0, time.UTC)), date(2024, 5, 6), true},
		{str("31.02.2024"), time.Time{}, false},
		{str("вчера"), time.Time{}, false},
		{str("03/15/2024"), time.Time{}, false},
		{model.NumberValue(45296), time.Time{}, false},
		{model.RawValue{}, time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := Date(tt.in)
		assert.Equal(t, tt.ok, ok, "input %+v", tt.in)
		assert.Equal(t, tt.want, got, "input %+v", tt.in)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in       model.RawValue
		want     string
		negative bool
		ok       bool
	}{
		{str("500000"), "500000", false, true},
		{str("1 500,50"), "1500.5", false, true},
		{str("-2 500,00 ₸"), "2500", true, true},
		{str("− 300"), "300", true, true},
		{str("+ 15 000,00 KZT"), "15000", false, true},
		{str("1,234.56"), "1234.56", false, true},
		{str("12.500,75"), "12500.75", false, true},
		{str("100 000"), "100000", false, true},
		{str("KZT 99"), "99", false, true},
		{str("1.234.567"), "", false, false},
		{str("abc"), "", false, false},
		{model.NumberValue(-1200.5), "1200.5", true, true},
		{model.NumberValue(math.NaN()), "", false, false},
		{model.RawValue{}, "", false, false},
	}
	for _, tt := range tests {
		got, neg, ok := Amount(tt.in)
		require.Equal(t, tt.ok, ok, "input %+v", tt.in)
		if !ok {
			continue
		}
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "input %+v: got %s", tt.in, got)
		assert.Equal(t, tt.negative, neg, "input %+v", tt.in)
	}
}

func TestDirection(t *testing.T) {
	p := DefaultPolicy()
	typed := fieldmap.Mapping{Direction: "type", Description: "desc"}
	inferred := fieldmap.Mapping{Description: "desc", InferFromDescription: true}
	plain := fieldmap.Mapping{Description: "desc"}

	tests := []struct {
		name     string
		row      model.RawRow
		m        fieldmap.Mapping
		negative bool
		want     bool
	}{
		{"type income", model.RawRow{"type": str("Приход")}, typed, true, true},
		{"type expense", model.RawRow{"type": str("РАСХОД")}, typed, false, false},
		{"type english credit", model.RawRow{"type": str("CREDIT")}, typed, true, true},
		{"type both prefers income", model.RawRow{"type": str("приход/расход")}, typed, false, true},
		{"type unknown falls back to sign", model.RawRow{"type": str("перевод")}, typed, true, false},
		{"type empty falls back to sign", model.RawRow{"type": str("")}, typed, false, true},
		{"description income", model.RawRow{"desc": str("Зачисление заработной платы")}, inferred, false, true},
		{"description expense", model.RawRow{"desc": str("Оплата коммунальных услуг")}, inferred, false, false},
		{"description both prefers income", model.RawRow{"desc": str("Возврат: оплата отменена")}, inferred, false, true},
		{"description unknown uses sign", model.RawRow{"desc": str("Kaspi Red")}, inferred, true, false},
		{"description ignored without inference", model.RawRow{"desc": str("Оплата")}, plain, false, true},
		{"negative means expense", model.RawRow{}, plain, true, false},
		{"positive means income", model.RawRow{}, plain, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Direction(tt.row, tt.m, tt.negative, p))
		})
	}
}

func TestRows_AcceptedAndSkipped(t *testing.T) {
	m := fieldmap.Mapping{Date: "Дата", Description: "Назначение", Amount: "Сумма", Direction: "Тип", Reference: "Номер"}
	rows := []model.RawRow{
		{"Дата": str("01.01.2024"), "Назначение": str("Зарплата"), "Сумма": str("500000"), "Тип": str("приход"), "Номер": model.NumberValue(1001)},
		{"Дата": str("02.01.2024"), "Назначение": str("Аренда офиса"), "Сумма": str("100000"), "Тип": str("расход")},
		{"Назначение": str("итого"), "Сумма": str("600000")},
		{"Дата": str("03.01.2024"), "Назначение": str("пусто")},
		{"Дата": str("не дата"), "Сумма": str("1")},
		{"Дата": str("04.01.2024"), "Сумма": str("n/a")},
		{"Дата": str("05.01.2024"), "Сумма": str("0,00")},
		{"Дата": str("06.01.2024"), "Сумма": str("-750"), "Назначение": str("Такси")},
	}

	res := Rows(rows, m, DefaultPolicy())
	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.Equal(t, date(2024, 1, 1), first.Date)
	assert.Equal(t, "Зарплата", first.Description)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(500000)))
	assert.True(t, first.IsIncome)
	assert.Equal(t, "1001", first.Reference)

	assert.False(t, res.Transactions[1].IsIncome)

	taxi := res.Transactions[2]
	assert.False(t, taxi.IsIncome)
	assert.Equal(t, "750", taxi.Amount.String())

	assert.Equal(t, map[model.SkipReason]int{
		model.SkipMissingDate:   1,
		model.SkipMissingAmount: 1,
		model.SkipBadDate:       1,
		model.SkipBadAmount:     1,
		model.SkipZeroAmount:    1,
	}, res.Skipped)
}

func TestRows_AmountsNeverNegative(t *testing.T) {
	m := fieldmap.Mapping{Date: "d", Amount: "a", Direction: "t"}
	rows := []model.RawRow{
		{"d": str("01.01.2024"), "a": str("-10"), "t": str("приход")},
		{"d": str("01.01.2024"), "a": model.NumberValue(-20), "t": str("расход")},
		{"d": str("01.01.2024"), "a": str("30")},
	}

	res := Rows(rows, m, DefaultPolicy())
	require.Len(t, res.Transactions, 3)
	for _, tx := range res.Transactions {
		assert.False(t, tx.Amount.IsNegative())
	}
	assert.True(t, res.Transactions[0].IsIncome)
	assert.False(t, res.Transactions[1].IsIncome)
	assert.True(t, res.Transactions[2].IsIncome)
}

func TestRows_Empty(t *testing.T) {
	res := Rows(nil, fieldmap.Mapping{Date: "d", Amount: "a"}, DefaultPolicy())
	assert.Empty(t, res.Transactions)
	assert.NotNil(t, res.Skipped)
}

func TestText(t *testing.T) {
	assert.Equal(t, "abc", Text(str("  abc ")))
	assert.Equal(t, "12345", Text(model.NumberValue(12345)))
	assert.Equal(t, "2024-01-02", Text(model.DateValue(date(2024, 1, 2))))
	assert.Equal(t, "", Text(model.RawValue{}))
}
