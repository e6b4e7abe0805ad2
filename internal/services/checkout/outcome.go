package checkout

import (
	"errors"

	"github.com/magabrotheeeer/estate-marketplace/internal/navigation"
)

// Сообщения, показываемые продавцу.
const (
	MsgSignIn         = "Please sign in to continue"
	MsgPaymentFailed  = "Payment failed"
	MsgTransportError = "Payment failed. Please try again."
	MsgSuccess        = "Payment successful! Your subscription is now active."
	MsgInFlight       = "Payment is already being processed"
)

// Демо-карты для подсказки на форме. Решение об оплате принимает платёжный эндпоинт.
const (
	DemoCardSuccess = "4242 4242 4242 4242"
	DemoCardFailure = "4000 0000 0000 0002"
)

var (
	// ErrSubmitInFlight — форма уже отправлена и ответ ещё не получен.
	ErrSubmitInFlight = errors.New("payment submission already in flight")
	// ErrClosed — контроллер закрыт, форма больше не активна.
	ErrClosed = errors.New("checkout controller closed")
	// ErrAuthRequired — продавец не аутентифицирован или сессия истекла.
	ErrAuthRequired = errors.New("authentication required")
)

// State — состояние контроллера отправки.
type State int32

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailure
	StateAuthRequired
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	case StateAuthRequired:
		return "auth_required"
	default:
		return "unknown"
	}
}

// Kind — тип результата попытки оплаты.
type Kind string

const (
	// KindSuccess — платёж принят.
	KindSuccess Kind = "success"
	// KindFailure — платёж отклонён или не дошёл до эндпоинта.
	KindFailure Kind = "failure"
	// KindAuthRequired — нужен вход продавца.
	KindAuthRequired Kind = "auth_required"
	// KindInvalid — форма не прошла проверку, запрос не отправлялся.
	KindInvalid Kind = "invalid"
	// KindBusy — предыдущая отправка ещё не завершена.
	KindBusy Kind = "busy"
)

// Outcome — результат Submit. Вызывающая сторона решает, как его показать;
// уведомление и переход контроллер уже выполнил сам.
type Outcome struct {
	Kind       Kind
	State      State
	Message    string
	Field      string           // Поле формы с ошибкой, только для KindInvalid
	Navigation *navigation.Plan // Запланированный переход, nil если перехода нет
	Err        error
	Discarded  bool // Ответ пришёл после Close, побочные эффекты не выполнялись
}
