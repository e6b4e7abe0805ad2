// Package cardformat нормализует ввод платёжной формы при каждом нажатии клавиши:
// номер карты разбивается на группы по 4 символа, срок действия приводится к виду MM/YY.
// Все функции чистые и идемпотентные.
package cardformat

import (
	"strings"
	"unicode"

	"github.com/magabrotheeeer/estate-marketplace/internal/models"
)

const (
	groupSize    = 4
	expiryMaxLen = 5
)

// Normalize приводит значение поля к каноническому виду. Поля, кроме номера карты
// и срока действия, возвращаются без изменений.
func Normalize(field, value string) string {
	switch field {
	case models.FieldCardNumber:
		return CardNumber(value)
	case models.FieldExpiryDate:
		return ExpiryDate(value)
	default:
		return value
	}
}

// NormalizeInput применяет Normalize ко всем полям формы.
func NormalizeInput(in models.CardInput) models.CardInput {
	return models.CardInput{
		CardNumber: Normalize(models.FieldCardNumber, in.CardNumber),
		CardHolder: Normalize(models.FieldCardHolder, in.CardHolder),
		ExpiryDate: Normalize(models.FieldExpiryDate, in.ExpiryDate),
		CVV:        Normalize(models.FieldCVV, in.CVV),
	}
}

// CardNumber удаляет все пробельные символы и вставляет одиночный пробел после каждых 4 символов.
// Неполная последняя группа остаётся как есть: "41111" -> "4111 1".
func CardNumber(value string) string {
	stripped := []rune(StripSpaces(value))
	var b strings.Builder
	b.Grow(len(stripped) + len(stripped)/groupSize)
	for i, r := range stripped {
		if i > 0 && i%groupSize == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ExpiryDate оставляет только цифры, вставляет "/" после второй цифры
// и обрезает результат до 5 символов.
func ExpiryDate(value string) string {
	digits := onlyDigits(value)
	if len(digits) > 2 {
		digits = digits[:2] + "/" + digits[2:]
	}
	if len(digits) > expiryMaxLen {
		digits = digits[:expiryMaxLen]
	}
	return digits
}

// StripSpaces удаляет из строки все пробельные символы.
func StripSpaces(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

// Last4 возвращает последние 4 символа номера карты без пробелов.
// Для более короткого номера возвращается весь номер.
func Last4(cardNumber string) string {
	s := StripSpaces(cardNumber)
	if len(s) <= groupSize {
		return s
	}
	return s[len(s)-groupSize:]
}

func onlyDigits(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}
