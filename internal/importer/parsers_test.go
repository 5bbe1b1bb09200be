package importer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-analyzer/statementcore/internal/fieldmap"
	"github.com/finance-analyzer/statementcore/internal/logger"
	"github.com/finance-analyzer/statementcore/internal/model"
)

func TestTextParser_KaspiPrimary(t *testing.T) {
	text := "Выписка по счету\n" +
		"01.02.2024 Перевод от Иванова И. 25 000,00 ₸ приход\n" +
		"03.02.2024 Magnum покупка продуктов 4 350,00 тг расход\n"

	res, err := NewTextParser(KaspiProfile()).parseText(context.Background(), "k.pdf", text)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	assert.True(t, res.Transactions[0].IsIncome)
	assert.Equal(t, "Перевод от Иванова И.", res.Transactions[0].Description)
	assert.Equal(t, "25000", res.Transactions[0].Amount.String())
	assert.False(t, res.Transactions[1].IsIncome)
	assert.Equal(t, FormatPDF, res.Format)
}

func TestTextParser_KaspiFallbackInfersDirection(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&buf))
	text := "05.02.2024 Зачисление зарплаты 300000 KZT\n" +
		"06.02.2024 Оплата связи 5000 KZT\n" +
		"07.02.2024 Магазин 1200 KZT\n" +
		"08.02.2024 Покупка в магазине Magnum 5 000 тг\n" +
		"09.02.2024 Пополнение с карты 2 000 ₸\n"

	res, err := NewTextParser(KaspiProfile()).parseText(ctx, "k.pdf", text)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 5)

	assert.True(t, res.Transactions[0].IsIncome)
	assert.False(t, res.Transactions[1].IsIncome)
	// No keyword: an unsigned amount counts as income.
	assert.True(t, res.Transactions[2].IsIncome)

	assert.Equal(t, "Покупка в магазине Magnum", res.Transactions[3].Description)
	assert.False(t, res.Transactions[3].IsIncome)
	assert.Equal(t, "5000", res.Transactions[3].Amount.String())
	assert.True(t, res.Transactions[4].IsIncome)
	assert.Contains(t, buf.String(), "using fallback")
}

func TestTextParser_HalykSignedLines(t *testing.T) {
	text := "12.03.2024 13.03.2024 Оплата Beeline -3 990,00 KZT\n" +
		"14.03.2024 Возврат покупки +1 200,00 KZT\n"

	res, err := NewTextParser(HalykProfile()).parseText(context.Background(), "h.pdf", text)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)

	assert.Equal(t, "Оплата Beeline", res.Transactions[0].Description)
	assert.False(t, res.Transactions[0].IsIncome)
	assert.Equal(t, "3990", res.Transactions[0].Amount.String())
	assert.Equal(t, 12, res.Transactions[0].Date.Day())

	assert.True(t, res.Transactions[1].IsIncome)
	assert.Equal(t, "1200", res.Transactions[1].Amount.String())
}

func TestTextParser_NoMatches(t *testing.T) {
	_, err := NewTextParser(KaspiProfile()).parseText(context.Background(), "k.pdf", "пустая выписка")
	assert.ErrorIs(t, err, fieldmap.ErrUnrecognized)
}

func TestTextParser_SkipsBadLines(t *testing.T) {
	text := "32.13.2024 Ошибка даты 100 тг расход\n" +
		"01.01.2024 Нулевая операция 0 тг расход\n" +
		"02.01.2024 Нормальная 10 тг расход\n"

	res, err := NewTextParser(KaspiProfile()).parseText(context.Background(), "k.pdf", text)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, map[model.SkipReason]int{model.SkipBadDate: 1, model.SkipZeroAmount: 1}, res.Skipped)
}

func TestProfiles_DoNotShareKeywords(t *testing.T) {
	k := KaspiProfile()
	h := HalykProfile()
	assert.NotContains(t, k.Keywords.Reference, "документ")
	assert.Contains(t, h.Keywords.Reference, "документ")
	assert.Contains(t, k.Policy.Column.Income, "пополнение")
	assert.NotContains(t, h.Policy.Column.Income, "пополнение")
}
