package models

// CardInput — временное состояние платёжной формы. Никогда не сохраняется
// и не логируется целиком, допустимы только последние 4 цифры номера карты.
type CardInput struct {
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

// Имена полей формы, используются нормализатором ввода.
const (
	FieldCardNumber = "cardNumber"
	FieldCardHolder = "cardHolder"
	FieldExpiryDate = "expiryDate"
	FieldCVV        = "cvv"
)
