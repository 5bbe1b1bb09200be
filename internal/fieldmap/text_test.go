package fieldmap

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLayout = TextLayout{
	Primary:  regexp.MustCompile(`(?i)(?P<date>\d{2}\.\d{2}\.\d{4})\s+(?P<description>.+?)\s+(?P<amount>[\d\s,.]+)\s*(?P<currency>тг|₸)?\s+(?P<direction>приход|расход)`),
	Fallback: regexp.MustCompile(`(?P<date>\d{2}\.\d{2}\.\d{4})\s+(?P<description>.+?)\s+(?P<amount>[\d\s,.]+)\s*(?P<currency>KZT|тг|₸)`),
}

func TestText_Primary(t *testing.T) {
	text := "Выписка по счету\n01.02.2024 Оплата Magnum 12 500,00 тг расход\n03.02.2024 Зарплата 450 000,00 ₸ приход\n"

	rows, m, err := Text(text, testLayout)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.False(t, m.InferFromDescription)
	assert.Equal(t, "direction", m.Direction)

	assert.Equal(t, "01.02.2024", rows[0]["date"].Text)
	assert.Equal(t, "Оплата Magnum", rows[0]["description"].Text)
	assert.Equal(t, "12 500,00", rows[0]["amount"].Text)
	assert.Equal(t, "расход", rows[0]["direction"].Text)
	assert.Equal(t, "приход", rows[1]["direction"].Text)
}

func TestText_PrimaryWithoutCurrency(t *testing.T) {
	rows, _, err := Text("05.03.2024 Перевод 1000 Приход", testLayout)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1000", rows[0]["amount"].Text)
	assert.Equal(t, "Приход", rows[0]["direction"].Text)
}

func TestText_Fallback(t *testing.T) {
	text := "10.04.2024 Зачисление от ТОО Ромашка 75 000 KZT\n11.04.2024 Оплата связи 3 000 KZT\n"

	rows, m, err := Text(text, testLayout)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, m.InferFromDescription)
	assert.Empty(t, m.Direction)
	assert.Equal(t, "Зачисление от ТОО Ромашка", rows[0]["description"].Text)
	assert.Equal(t, "75 000", rows[0]["amount"].Text)
}

func TestText_NoMatches(t *testing.T) {
	_, _, err := Text("nothing that looks like a transaction", testLayout)
	assert.ErrorIs(t, err, ErrUnrecognized)

	_, _, err = Text("", TextLayout{Primary: testLayout.Primary})
	assert.ErrorIs(t, err, ErrUnrecognized)
}
