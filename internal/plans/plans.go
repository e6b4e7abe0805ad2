// Package plans содержит неизменяемый каталог тарифов подписки продавца
// и чистые функции для вычисления производных полей (итоговая стоимость, скидка).
package plans

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Cycle — ключ периода оплаты тарифа.
type Cycle string

const (
	// Monthly — базовый тариф, оплата помесячно.
	Monthly Cycle = "monthly"
	// Quarterly — оплата за три месяца.
	Quarterly Cycle = "quarterly"
	// Annually — оплата за двенадцать месяцев.
	Annually Cycle = "annually"
)

// ErrUnknownCycle возвращается для ключа, которого нет в каталоге.
var ErrUnknownCycle = errors.New("unknown billing cycle")

// Plan описывает тариф. Итог и скидка не хранятся, а вычисляются функциями Total и DiscountPercent.
type Plan struct {
	Cycle          Cycle  `json:"cycle"`
	PerMonthPrice  int    `json:"per_month_price"` // Цена за месяц
	DurationMonths int    `json:"duration_months"` // Количество оплачиваемых месяцев
	Label          string `json:"label"`           // Название для отображения
}

var catalog = [...]Plan{
	{Cycle: Monthly, PerMonthPrice: 999, DurationMonths: 1, Label: "Monthly"},
	{Cycle: Quarterly, PerMonthPrice: 899, DurationMonths: 3, Label: "Quarterly"},
	{Cycle: Annually, PerMonthPrice: 749, DurationMonths: 12, Label: "Annually"},
}

// BasePrice возвращает цену за месяц базового (помесячного) тарифа.
func BasePrice() int {
	return catalog[0].PerMonthPrice
}

// All возвращает копию каталога в порядке monthly, quarterly, annually.
func All() []Plan {
	res := make([]Plan, len(catalog))
	copy(res, catalog[:])
	return res
}

// Get возвращает тариф по ключу периода.
func Get(c Cycle) (Plan, error) {
	const op = "plans.Get"
	for _, p := range catalog {
		if p.Cycle == c {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("%s: %w: %q", op, ErrUnknownCycle, c)
}

// ParseCycle разбирает строку из запроса в Cycle. Регистр и пробелы по краям игнорируются.
func ParseCycle(s string) (Cycle, error) {
	c := Cycle(strings.ToLower(strings.TrimSpace(s)))
	if _, err := Get(c); err != nil {
		return "", err
	}
	return c, nil
}

// Total — полная стоимость тарифа за весь период.
func Total(p Plan) int {
	return p.PerMonthPrice * p.DurationMonths
}

// DiscountPercent — скидка относительно базовой цены в процентах, округлённая до целого.
// Для базового тарифа и для цены выше базовой возвращает 0.
func DiscountPercent(p Plan) int {
	base := BasePrice()
	if base <= 0 || p.PerMonthPrice >= base {
		return 0
	}
	return int(math.Round(float64(base-p.PerMonthPrice) / float64(base) * 100))
}
