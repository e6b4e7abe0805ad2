// Package checkout обрабатывает отправку платёжной формы подписки продавца.
package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/estate-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-marketplace/internal/http/response"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/estate-marketplace/internal/models"
	"github.com/magabrotheeeer/estate-marketplace/internal/navigation"
	"github.com/magabrotheeeer/estate-marketplace/internal/plans"
	checkoutservice "github.com/magabrotheeeer/estate-marketplace/internal/services/checkout"
	"github.com/magabrotheeeer/estate-marketplace/internal/services/subscription"
)

// Request — тело запроса оплаты. Поля карты проверяет контроллер, а не struct-теги,
// чтобы продавец получил одно сообщение в порядке проверки формы.
type Request struct {
	Cycle      string `json:"cycle" validate:"required" example:"annually"`
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

// Result — данные ответа: результат, сообщение и куда перейти.
type Result struct {
	Outcome         string `json:"outcome" example:"success"`
	Message         string `json:"message" example:"Payment successful! Your subscription is now active."`
	Field           string `json:"field,omitempty"`
	PlanType        string `json:"plan_type" example:"annually"`
	Amount          int    `json:"amount" example:"8988"`
	RedirectTo      string `json:"redirect_to,omitempty" example:"/seller/dashboard"`
	RedirectAfterMs int64  `json:"redirect_after_ms,omitempty" example:"2000"`
}

// Controller — контроллер одной платёжной формы.
type Controller interface {
	Submit(ctx context.Context, seller *models.Seller, in models.CardInput, p checkoutservice.Params) checkoutservice.Outcome
	Close()
}

// Handler обрабатывает отправку формы оплаты.
type Handler struct {
	log           *slog.Logger
	newController func() Controller
	routes        navigation.Routes
	validate      *validator.Validate
}

// New создаёт Handler. newController вызывается на каждый запрос: один запрос — одна форма.
func New(log *slog.Logger, newController func() Controller, routes navigation.Routes) *Handler {
	return &Handler{
		log:           log,
		newController: newController,
		routes:        routes,
		validate:      validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оплатить подписку
// @Description Проверяет форму, отправляет демо-платёж и возвращает результат и переход
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Param request body Request true "Тариф и данные карты"
// @Success 200 {object} response.Response{data=Result} "Платёж принят"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.Response{data=Result} "Нужен вход"
// @Failure 402 {object} response.Response{data=Result} "Платёж отклонён"
// @Failure 409 {object} response.Response{data=Result} "Оплата уже выполняется"
// @Failure 422 {object} response.Response{data=Result} "Ошибка в форме или неизвестный тариф"
// @Router /subscription/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	cycle, err := plans.ParseCycle(req.Cycle)
	if err != nil {
		log.Info("unknown cycle requested", slog.String("cycle", req.Cycle), sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unknown billing cycle"))
		return
	}

	view, err := subscription.NewView(cycle)
	if err != nil {
		log.Error("failed to open subscription view", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not open subscription view"))
		return
	}
	params := view.Subscribe()

	ctrl := h.newController()
	defer ctrl.Close()

	out := ctrl.Submit(r.Context(), middlewarectx.SellerFromContext(r.Context()), models.CardInput{
		CardNumber: req.CardNumber,
		CardHolder: req.CardHolder,
		ExpiryDate: req.ExpiryDate,
		CVV:        req.CVV,
	}, params)

	res := Result{
		Outcome:  string(out.Kind),
		Message:  out.Message,
		Field:    out.Field,
		PlanType: params.PlanType,
		Amount:   params.Amount,
	}
	if out.Navigation != nil {
		res.RedirectTo = h.routes.Path(out.Navigation.Destination)
		res.RedirectAfterMs = out.Navigation.After.Milliseconds()
	}

	log.Info("checkout finished", slog.String("outcome", res.Outcome), slog.String("plan_type", res.PlanType))

	if out.Kind == checkoutservice.KindSuccess {
		render.JSON(w, r, response.StatusOKWithData(res))
		return
	}
	render.Status(r, statusFor(out.Kind))
	render.JSON(w, r, response.ErrorWithData(out.Message, res))
}

func statusFor(kind checkoutservice.Kind) int {
	switch kind {
	case checkoutservice.KindAuthRequired:
		return http.StatusUnauthorized
	case checkoutservice.KindInvalid:
		return http.StatusUnprocessableEntity
	case checkoutservice.KindBusy:
		return http.StatusConflict
	case checkoutservice.KindFailure:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
