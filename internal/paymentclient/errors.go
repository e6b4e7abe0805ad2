package paymentclient

import (
	"errors"
	"fmt"
)

// DefaultFailureMessage используется, когда эндпоинт не вернул текст ошибки.
const DefaultFailureMessage = "Payment failed"

var (
	// ErrUnauthorized — эндпоинт ответил 401, сессия продавца истекла.
	ErrUnauthorized = errors.New("payment endpoint: unauthorized")
	// ErrTransport — запрос не завершился или ответ не удалось разобрать.
	ErrTransport = errors.New("payment endpoint: transport failure")
)

// RejectedError — эндпоинт отклонил платёж: не-2xx статус или success:false.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment rejected (status %d): %s", e.StatusCode, e.Message)
}
