// Package cardvalidate проверяет нормализованные данные платёжной формы перед отправкой.
//
// Правила проверяются по порядку (номер карты, держатель, срок действия, CVV),
// проверка останавливается на первом нарушении и возвращает одно сообщение об ошибке.
package cardvalidate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/estate-marketplace/internal/lib/cardformat"
	"github.com/magabrotheeeer/estate-marketplace/internal/models"
)

// Сообщения об ошибках, показываемые пользователю.
const (
	MsgInvalidCardNumber = "Invalid card number"
	MsgMissingCardHolder = "Please enter card holder name"
	MsgInvalidExpiry     = "Invalid expiry date (MM/YY)"
	MsgInvalidCVV        = "Invalid CVV"
)

// ErrInvalidInput — базовая ошибка для всех нарушений правил формы.
var ErrInvalidInput = errors.New("invalid payment form")

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3}$`)
)

// Result — итог проверки формы. При Valid == false Field и Message описывают первое нарушение.
type Result struct {
	Valid   bool
	Field   string
	Message string
}

// Err возвращает nil для валидного результата, иначе ошибку, оборачивающую ErrInvalidInput.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, r.Message)
}

type rule struct {
	field   string
	tag     string
	message string
	value   func(models.CardInput) string
}

var rules = []rule{
	{field: models.FieldCardNumber, tag: "cardnumber", message: MsgInvalidCardNumber, value: func(in models.CardInput) string { return in.CardNumber }},
	{field: models.FieldCardHolder, tag: "notblank", message: MsgMissingCardHolder, value: func(in models.CardInput) string { return in.CardHolder }},
	{field: models.FieldExpiryDate, tag: "expiry", message: MsgInvalidExpiry, value: func(in models.CardInput) string { return in.ExpiryDate }},
	{field: models.FieldCVV, tag: "cvv", message: MsgInvalidCVV, value: func(in models.CardInput) string { return in.CVV }},
}

// Validator проверяет форму через go-playground/validator с зарегистрированными тегами
// cardnumber, notblank, expiry и cvv.
type Validator struct {
	validate *validator.Validate
}

// New создаёт Validator. Теги можно использовать и в struct-тегах других запросов.
func New() *Validator {
	v := validator.New()
	Register(v)
	return &Validator{validate: v}
}

// Register добавляет платёжные теги в существующий экземпляр validator.
func Register(v *validator.Validate) {
	mustRegister(v, "cardnumber", func(fl validator.FieldLevel) bool {
		return cardNumberRe.MatchString(cardformat.StripSpaces(fl.Field().String()))
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "expiry", func(fl validator.FieldLevel) bool {
		return expiryRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "cvv", func(fl validator.FieldLevel) bool {
		return cvvRe.MatchString(fl.Field().String())
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("cardvalidate: register %s: %v", tag, err))
	}
}

// Validate проверяет форму. Вызывается только при отправке, не на каждое нажатие клавиши.
func (v *Validator) Validate(in models.CardInput) Result {
	for _, r := range rules {
		if err := v.validate.Var(r.value(in), r.tag); err != nil {
			return Result{Field: r.field, Message: r.message}
		}
	}
	return Result{Valid: true}
}

var defaultValidator = New()

// Validate проверяет форму валидатором по умолчанию.
func Validate(in models.CardInput) Result {
	return defaultValidator.Validate(in)
}
