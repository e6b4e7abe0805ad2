// Package checkout реализует контроллер отправки демо-платежа за подписку продавца.
//
// Контроллер проверяет наличие продавца, валидирует форму, отправляет PaymentRequest
// на платёжный эндпоинт и по результату уведомляет продавца и планирует переход
// на страницу входа или в кабинет. Один экземпляр контроллера обслуживает одну форму.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/magabrotheeeer/estate-marketplace/internal/lib/cardformat"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/cardvalidate"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/estate-marketplace/internal/models"
	"github.com/magabrotheeeer/estate-marketplace/internal/navigation"
	"github.com/magabrotheeeer/estate-marketplace/internal/paymentclient"
)

// DefaultRedirectDelay — задержка перед переходом после успеха или потери сессии.
const DefaultRedirectDelay = 2 * time.Second

// PaymentClient отправляет платёж на внешний эндпоинт.
type PaymentClient interface {
	ProcessPayment(ctx context.Context, sessionToken string, payment models.PaymentRequest) (*models.PaymentResponse, error)
}

// Validator проверяет форму перед отправкой.
type Validator interface {
	Validate(in models.CardInput) cardvalidate.Result
}

// Gate не даёт одному продавцу отправить две оплаты одновременно (например, из двух вкладок).
// Acquire возвращает токен владельца, Release снимает блокировку только по нему.
type Gate interface {
	Acquire(ctx context.Context, key string) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// Metrics собирает статистику попыток оплаты.
type Metrics interface {
	ObserveOutcome(kind string)
	ObservePayment(d time.Duration)
}

// Params — параметры оплаты, которые задаёт экран выбора тарифа.
type Params struct {
	Amount   int
	Duration int
	PlanType string
}

// Options — зависимости контроллера. PaymentClient обязателен, остальные поля опциональны.
type Options struct {
	Client    PaymentClient
	Notifier  Notifier
	Navigator navigation.Navigator
	Validator Validator
	Gate      Gate
	Metrics   Metrics
	Delay     time.Duration
}

// Controller — конечный автомат Idle → Submitting → {Success, Failure, AuthRequired}.
type Controller struct {
	client    PaymentClient
	notifier  Notifier
	validator Validator
	gate      Gate
	metrics   Metrics
	scheduler *navigation.Scheduler
	delay     time.Duration
	log       *slog.Logger

	state      atomic.Int32
	submitting atomic.Bool

	closeOnce sync.Once
	done      chan struct{}
}

// New создаёт контроллер для одной платёжной формы.
func New(opts Options, log *slog.Logger) *Controller {
	c := &Controller{
		client:    opts.Client,
		notifier:  opts.Notifier,
		validator: opts.Validator,
		gate:      opts.Gate,
		metrics:   opts.Metrics,
		delay:     opts.Delay,
		log:       log,
		done:      make(chan struct{}),
	}
	if c.notifier == nil {
		c.notifier = NopNotifier{}
	}
	if c.validator == nil {
		c.validator = cardvalidate.New()
	}
	if c.gate == nil {
		c.gate = noGate{}
	}
	if c.metrics == nil {
		c.metrics = nopMetrics{}
	}
	if c.delay <= 0 {
		c.delay = DefaultRedirectDelay
	}
	if opts.Navigator != nil {
		c.scheduler = navigation.NewScheduler(opts.Navigator, log)
	}
	return c
}

// State возвращает текущее состояние.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Submitting сообщает, идёт ли отправка. Пока true, кнопка оплаты должна быть недоступна.
func (c *Controller) Submitting() bool {
	return c.submitting.Load()
}

// Close снимает форму: отменяет запланированные переходы, а результат
// запроса, пришедший позже, игнорируется. Повторный вызов безопасен.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.scheduler != nil {
			c.scheduler.Close()
		}
	})
}

func (c *Controller) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Submit обрабатывает отправку формы. seller == nil означает, что продавец не вошёл.
// Ввод нормализуется перед проверкой. Повторов контроллер не делает.
func (c *Controller) Submit(ctx context.Context, seller *models.Seller, in models.CardInput, p Params) Outcome {
	const op = "checkout.Submit"
	log := c.log.With(slog.String("op", op), slog.String("plan_type", p.PlanType))

	if c.closed() {
		return Outcome{Kind: KindFailure, State: c.State(), Err: ErrClosed, Discarded: true}
	}
	if !c.submitting.CompareAndSwap(false, true) {
		log.Warn("submission rejected, previous one still in flight")
		return Outcome{Kind: KindBusy, State: c.State(), Message: MsgInFlight, Err: ErrSubmitInFlight}
	}
	defer c.submitting.Store(false)

	if seller == nil {
		log.Info("no authenticated seller, redirecting to sign-in")
		return c.finish(ctx, nil, p, "", Outcome{
			Kind:    KindAuthRequired,
			State:   StateAuthRequired,
			Message: MsgSignIn,
			Err:     ErrAuthRequired,
		})
	}
	log = log.With(slog.String("seller_id", seller.ID))

	in = cardformat.NormalizeInput(in)
	if res := c.validator.Validate(in); !res.Valid {
		log.Info("payment form rejected", slog.String("field", res.Field))
		return c.finish(ctx, seller, p, "", Outcome{
			Kind:    KindInvalid,
			State:   StateIdle,
			Message: res.Message,
			Field:   res.Field,
			Err:     res.Err(),
		})
	}

	last4 := cardformat.Last4(in.CardNumber)
	log = log.With(sl.Card(last4))

	token, acquired, err := c.gate.Acquire(ctx, seller.ID)
	if err != nil {
		log.Warn("submission gate unavailable, continuing without it", sl.Err(err))
	} else if !acquired {
		log.Warn("another submission for seller is in flight")
		return c.finish(ctx, seller, p, last4, Outcome{
			Kind:    KindBusy,
			State:   c.State(),
			Message: MsgInFlight,
			Err:     ErrSubmitInFlight,
		})
	}
	if acquired {
		defer func() {
			if err := c.gate.Release(context.WithoutCancel(ctx), seller.ID, token); err != nil {
				log.Warn("failed to release submission gate", sl.Err(err))
			}
		}()
	}

	c.state.Store(int32(StateSubmitting))
	outcome := c.send(ctx, log, seller, p, last4)
	return c.finish(ctx, seller, p, last4, outcome)
}

// send выполняет один запрос к эндпоинту и переводит его результат в Outcome.
func (c *Controller) send(ctx context.Context, log *slog.Logger, seller *models.Seller, p Params, last4 string) (outcome Outcome) {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.done:
			cancel()
		case <-reqCtx.Done():
		}
	}()

	// паника в клиенте не должна оставить форму в состоянии Submitting
	defer func() {
		if r := recover(); r != nil {
			log.Error("payment client panicked", slog.Any("panic", r))
			outcome = Outcome{
				Kind:    KindFailure,
				State:   StateFailure,
				Message: MsgTransportError,
				Err:     fmt.Errorf("%w: panic: %v", paymentclient.ErrTransport, r),
			}
		}
	}()

	start := time.Now()
	_, err := c.client.ProcessPayment(reqCtx, seller.SessionToken, models.PaymentRequest{
		Amount:      p.Amount,
		Duration:    p.Duration,
		PlanType:    p.PlanType,
		Last4Digits: last4,
	})
	c.metrics.ObservePayment(time.Since(start))

	switch {
	case err == nil:
		log.Info("payment accepted")
		return Outcome{Kind: KindSuccess, State: StateSuccess, Message: MsgSuccess}
	case errors.Is(err, paymentclient.ErrUnauthorized):
		log.Warn("session expired during payment", sl.Err(err))
		return Outcome{Kind: KindAuthRequired, State: StateAuthRequired, Message: MsgSignIn, Err: ErrAuthRequired}
	}

	if msg, ok := paymentclient.IsRejected(err); ok {
		log.Warn("payment rejected", sl.Err(err))
		return Outcome{Kind: KindFailure, State: StateFailure, Message: msg, Err: err}
	}
	log.Error("payment request failed", sl.Err(err))
	return Outcome{Kind: KindFailure, State: StateFailure, Message: MsgTransportError, Err: err}
}

// finish выполняет побочные эффекты результата: ровно одно уведомление и не более одного перехода.
// После Close эффекты не выполняются.
func (c *Controller) finish(ctx context.Context, seller *models.Seller, p Params, last4 string, o Outcome) Outcome {
	if o.Kind != KindBusy {
		c.state.Store(int32(o.State))
	}
	c.metrics.ObserveOutcome(string(o.Kind))

	if c.closed() {
		o.Discarded = true
		return o
	}

	switch o.Kind {
	case KindSuccess:
		o.Navigation = &navigation.Plan{Destination: navigation.Dashboard, After: c.delay}
	case KindAuthRequired:
		o.Navigation = &navigation.Plan{Destination: navigation.SignIn, After: c.delay}
	}

	n := Notification{
		Level:    LevelError,
		Kind:     o.Kind,
		Message:  o.Message,
		PlanType: p.PlanType,
		Last4:    last4,
	}
	if o.Kind == KindSuccess {
		n.Level = LevelSuccess
	}
	if seller != nil {
		n.SellerID = seller.ID
	}
	c.notifier.Notify(context.WithoutCancel(ctx), n)

	if o.Navigation != nil && c.scheduler != nil {
		c.scheduler.Schedule(*o.Navigation)
	}
	return o
}

type noGate struct{}

func (noGate) Acquire(context.Context, string) (string, bool, error) { return "", true, nil }
func (noGate) Release(context.Context, string, string) error         { return nil }

type nopMetrics struct{}

func (nopMetrics) ObserveOutcome(string)        {}
func (nopMetrics) ObservePayment(time.Duration) {}
