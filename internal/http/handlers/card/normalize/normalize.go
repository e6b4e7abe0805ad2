// Package normalize форматирует поле платёжной формы при вводе.
package normalize

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/estate-marketplace/internal/http/response"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/cardformat"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/sl"
)

// Request — поле формы и его сырое значение.
type Request struct {
	Field string `json:"field" validate:"required,max=32" example:"cardNumber"`
	Value string `json:"value" validate:"max=64" example:"42424242"`
}

// Result — отформатированное значение.
type Result struct {
	Field string `json:"field" example:"cardNumber"`
	Value string `json:"value" example:"4242 4242"`
}

type Handler struct {
	log      *slog.Logger
	validate *validator.Validate
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log:      log,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Форматировать поле карты
// @Description Номер карты группируется по 4 цифры, срок действия приводится к MM/YY, остальные поля не меняются
// @Tags Card
// @Accept  json
// @Produce  json
// @Param request body Request true "Поле и значение"
// @Success 200 {object} response.Response{data=Result} "Отформатированное значение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /card/normalize [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.normalize"
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

	render.JSON(w, r, response.StatusOKWithData(Result{
		Field: req.Field,
		Value: cardformat.Normalize(req.Field, req.Value),
	}))
}
