package models

// PaymentRequest — тело запроса к платёжному эндпоинту.
// Полный номер карты, имя держателя, срок действия и CVV сюда не попадают.
type PaymentRequest struct {
	Amount      int    `json:"amount"`
	Duration    int    `json:"duration"`
	PlanType    string `json:"planType"`
	Last4Digits string `json:"last4Digits"`
}

// PaymentResponse — ответ платёжного эндпоинта. Остальные поля игнорируются.
type PaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
