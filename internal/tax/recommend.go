package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Priorities attached to recommendations.
const (
	PriorityHigh   = "Высокий"
	PriorityMedium = "Средний"
	PriorityLow    = "Низкий"
)

// highSavings is the savings amount above which switching regime is urgent.
var highSavings = decimal.NewFromInt(10000)

// Recommendation is one piece of tax advice. Savings is nil when the advice
// has no direct monetary effect.
type Recommendation struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Savings     *decimal.Decimal `json:"savings"`
	Priority    string           `json:"priority"`
}

// Advice compares the current regime with the optimal one.
type Advice struct {
	Current          string           `json:"current_regime"`
	Optimal          string           `json:"optimal_regime"`
	PotentialSavings decimal.Decimal  `json:"potential_savings"`
	Recommendations  []Recommendation `json:"recommendations"`
}

// Recommend builds advice from a full set of estimates produced by this
// calculator.
func (c *Calculator) Recommend(all AllEstimates) Advice {
	current, _ := all.Get(c.current)
	optimal, _ := all.Get(all.Optimal)

	adv := Advice{
		Current:          c.current,
		Optimal:          all.Optimal,
		PotentialSavings: current.Amount.Sub(optimal.Amount),
	}

	if adv.PotentialSavings.IsPositive() {
		priority := PriorityMedium
		if adv.PotentialSavings.GreaterThan(highSavings) {
			priority = PriorityHigh
		}
		savings := adv.PotentialSavings
		adv.Recommendations = append(adv.Recommendations, Recommendation{
			Title: fmt.Sprintf("Смена налогового режима на %s", optimal.RegimeName),
			Description: fmt.Sprintf("Вы можете сэкономить %s %s на налогах, перейдя на %s.",
				savings.StringFixed(2), c.currency, optimal.RegimeName),
			Savings:  &savings,
			Priority: priority,
		})
	}

	simplified, okS := all.Get("ip_simplified")
	general, okG := all.Get("ip_general")
	if okS && okG && general.Amount.LessThan(simplified.Amount) {
		savings := simplified.Amount.Sub(general.Amount)
		adv.Recommendations = append(adv.Recommendations, Recommendation{
			Title:       "Учет расходов",
			Description: "Официальный учет расходов может снизить налоговую нагрузку при общем режиме налогообложения.",
			Savings:     &savings,
			Priority:    PriorityMedium,
		})
	}

	adv.Recommendations = append(adv.Recommendations, Recommendation{
		Title:       "Налоговое планирование",
		Description: "Заранее планируйте крупные закупки и платежи для оптимизации налоговой нагрузки.",
		Priority:    PriorityLow,
	})
	return adv
}
