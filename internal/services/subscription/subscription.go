// Package subscription реализует экран выбора тарифа продавцом: хранит выбранный
// период оплаты, отдаёт варианты каталога и по нажатию «Subscribe» готовит
// параметры оплаты для контроллера checkout.
package subscription

import (
	"fmt"
	"sync"

	"github.com/magabrotheeeer/estate-marketplace/internal/plans"
	"github.com/magabrotheeeer/estate-marketplace/internal/services/checkout"
)

// Step — шаг экрана.
type Step int

const (
	// StepSelect — продавец выбирает тариф.
	StepSelect Step = iota
	// StepPayment — показана платёжная форма.
	StepPayment
)

// Option — тариф в виде, готовом для отображения.
type Option struct {
	plans.Plan
	Total           int  `json:"total"`
	DiscountPercent int  `json:"discount_percent"`
	Selected        bool `json:"selected"`
}

// View хранит локальное состояние экрана. Ровно один тариф выбран в любой момент.
type View struct {
	mu       sync.RWMutex
	selected plans.Cycle
	step     Step
}

// NewView создаёт экран с выбранным тарифом def. Пустой def означает monthly.
func NewView(def plans.Cycle) (*View, error) {
	const op = "subscription.NewView"
	if def == "" {
		def = plans.Monthly
	}
	if _, err := plans.Get(def); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &View{selected: def}, nil
}

// Select меняет выбранный тариф. Неизвестный ключ не меняет выбор.
func (v *View) Select(c plans.Cycle) error {
	const op = "subscription.Select"
	if _, err := plans.Get(c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = c
	return nil
}

// Selected возвращает выбранный тариф.
func (v *View) Selected() plans.Plan {
	v.mu.RLock()
	defer v.mu.RUnlock()
	p, _ := plans.Get(v.selected)
	return p
}

// Step возвращает текущий шаг экрана.
func (v *View) Step() Step {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.step
}

// Options возвращает все тарифы каталога с итогом, скидкой и признаком выбора.
func (v *View) Options() []Option {
	v.mu.RLock()
	selected := v.selected
	v.mu.RUnlock()
	return Options(selected)
}

// Options строит варианты каталога для выбранного периода.
func Options(selected plans.Cycle) []Option {
	all := plans.All()
	res := make([]Option, 0, len(all))
	for _, p := range all {
		res = append(res, Option{
			Plan:            p,
			Total:           plans.Total(p),
			DiscountPercent: plans.DiscountPercent(p),
			Selected:        p.Cycle == selected,
		})
	}
	return res
}

// Subscribe переводит экран на платёжную форму и возвращает параметры оплаты выбранного тарифа.
func (v *View) Subscribe() checkout.Params {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.step = StepPayment
	p, _ := plans.Get(v.selected)
	return ParamsFor(p)
}

// Cancel возвращает экран к выбору тарифа. Выбранный тариф сохраняется.
func (v *View) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.step = StepSelect
}

// ParamsFor — параметры оплаты тарифа: сумма за весь период, число месяцев и ключ периода.
func ParamsFor(p plans.Plan) checkout.Params {
	return checkout.Params{
		Amount:   plans.Total(p),
		Duration: p.DurationMonths,
		PlanType: string(p.Cycle),
	}
}
