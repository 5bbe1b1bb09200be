package classify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-analyzer/statementcore/internal/model"
)

func tx(desc string, amount int64) model.Transaction {
	return model.Transaction{Description: desc, Amount: decimal.NewFromInt(amount)}
}

func TestExpenseLabels(t *testing.T) {
	c := NewClassifier(DefaultExpenseRules())

	tests := []struct {
		desc string
		want string
	}{
		{"Аренда офиса", "Аренда"},
		{"АРЕНДА ОФИСА за март", "Аренда"},
		{"Коммунальные платежи за март", "Коммунальные услуги"},
		{"Выплата аванса сотрудникам", "Зарплата"},
		{"Уплата НДС за 1 квартал", "Налоги"},
		{"Beeline мобильная связь", "Связь и интернет"},
		{"Яндекс Такси поездка", "Транспортные расходы"},
		{"Target ads campaign", "Маркетинг и реклама"},
		{"Подписка GitHub", "Программное обеспечение"},
		{"Ноутбук Lenovo", "Оборудование"},
		{"Вебинар по продажам", "Обучение и развитие"},
		{"Кофе с собой", "Питание"},
		{"Банкет", "Представительские расходы"},
		{"Магнум", model.OtherLabel},
		{"", model.OtherLabel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Label(tt.desc), "description %q", tt.desc)
	}
}

func TestIncomeLabels(t *testing.T) {
	c := NewClassifier(DefaultIncomeRules())

	tests := []struct {
		desc string
		want string
	}{
		{"Зарплата", "Заработная плата"},
		{"ЗП за январь", "Заработная плата"},
		{"Перевод от Ивана", "Перевод"},
		{"Refund order 123", "Возврат"},
		{"Выручка за день", "Продажа товаров"},
		{"Консультация", "Оказание услуг"},
		{"Проценты по депозиту", "Инвестиции"},
		{"Кэшбэк за покупки", "Кэшбэк"},
		{"ЗПХ", model.OtherLabel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Label(tt.desc), "description %q", tt.desc)
	}
}

func TestLabel_DeclarationOrderWins(t *testing.T) {
	// "ресторан" appears under both Питание and Представительские расходы.
	c := NewClassifier(DefaultExpenseRules())
	assert.Equal(t, "Питание", c.Label("Ужин в ресторане с клиентом"))

	// A shorter keyword declared earlier beats a more specific later one.
	custom := NewClassifier(RuleSet{Rules: []Rule{
		{Label: "A", Keywords: []string{"x"}},
		{Label: "B", Keywords: []string{"xyz"}},
	}})
	assert.Equal(t, "A", custom.Label("xyz"))
}

func TestNewClassifier_DoesNotShareRules(t *testing.T) {
	rs := RuleSet{Fallback: "none", Rules: []Rule{{Label: "Food", Keywords: []string{"Coffee"}}}}
	c := NewClassifier(rs)

	rs.Rules[0].Keywords[0] = "tea"

	assert.Equal(t, "Food", c.Label("coffee beans"))
	assert.Equal(t, "none", c.Label("tea"))
	assert.Equal(t, "none", c.Fallback())
}

func TestApply(t *testing.T) {
	c := NewClassifier(DefaultExpenseRules())
	in := []model.Transaction{tx("Аренда офиса", 100), tx("Бензин АИ-95", 20)}

	out := c.Apply(in)
	require.Len(t, out, 2)
	assert.Equal(t, "Аренда", out[0].Category)
	assert.Equal(t, "Транспортные расходы", out[1].Category)
	assert.Empty(t, in[0].Category, "input must not be modified")
}

func TestShares(t *testing.T) {
	txns := []model.Transaction{
		{Category: "B", Amount: decimal.NewFromInt(25)},
		{Category: "A", Amount: decimal.NewFromInt(50)},
		{Category: "B", Amount: decimal.NewFromInt(25)},
		{Category: "", Amount: decimal.NewFromInt(100)},
	}

	shares := Shares(txns)
	require.Len(t, shares, 3)

	assert.Equal(t, model.OtherLabel, shares[0].Label)
	assert.Equal(t, "50", shares[0].Percentage.String())

	// A and B tie at 50; B was seen first.
	assert.Equal(t, "B", shares[1].Label)
	assert.Equal(t, "A", shares[2].Label)
	assert.Equal(t, "25", shares[1].Percentage.String())

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Percentage)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(100)))
}

func TestShares_PercentagesSumTo100(t *testing.T) {
	txns := []model.Transaction{
		{Category: "A", Amount: decimal.NewFromInt(1)},
		{Category: "B", Amount: decimal.NewFromInt(1)},
		{Category: "C", Amount: decimal.NewFromInt(1)},
	}

	sum := decimal.Zero
	for _, s := range Shares(txns) {
		sum = sum.Add(s.Percentage)
	}
	f, _ := sum.Float64()
	assert.InDelta(t, 100, f, 1e-9)
}

func TestShares_ZeroTotal(t *testing.T) {
	shares := Shares([]model.Transaction{{Category: "A", Amount: decimal.Zero}})
	require.Len(t, shares, 1)
	assert.True(t, shares[0].Percentage.IsZero())

	assert.Empty(t, Shares(nil))
}

func TestShares_SingleTransaction(t *testing.T) {
	shares := Shares([]model.Transaction{{Category: "Аренда", Amount: decimal.NewFromInt(100000)}})
	require.Len(t, shares, 1)
	assert.True(t, shares[0].Percentage.Equal(decimal.NewFromInt(100)))
}
