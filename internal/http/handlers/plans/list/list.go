// Package list отдаёт каталог тарифов для экрана выбора подписки.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-marketplace/internal/http/response"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/estate-marketplace/internal/plans"
	"github.com/magabrotheeeer/estate-marketplace/internal/services/checkout"
	"github.com/magabrotheeeer/estate-marketplace/internal/services/subscription"
)

// DemoCards — карты, которые можно ввести в демо-режиме.
type DemoCards struct {
	Success string `json:"success" example:"4242 4242 4242 4242"`
	Failure string `json:"failure" example:"4000 0000 0000 0002"`
}

// Result — данные ответа каталога.
type Result struct {
	Plans     []subscription.Option `json:"plans"`
	BasePrice int                   `json:"base_price" example:"999"`
	Selected  plans.Cycle           `json:"selected" example:"monthly"`
	DemoCards DemoCards             `json:"demo_cards"`
}

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Каталог тарифов
// @Description Возвращает тарифы с итоговой суммой, скидкой и отметкой выбранного
// @Tags Plans
// @Produce  json
// @Param cycle query string false "Выбранный тариф" Enums(monthly, quarterly, annually)
// @Success 200 {object} response.Response{data=Result} "Каталог"
// @Failure 422 {object} response.ErrorResponse "Неизвестный тариф"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	selected := plans.Monthly
	if raw := r.URL.Query().Get("cycle"); raw != "" {
		c, err := plans.ParseCycle(raw)
		if err != nil {
			log.Info("unknown cycle requested", slog.String("cycle", raw), sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown billing cycle"))
			return
		}
		selected = c
	}

	render.JSON(w, r, response.StatusOKWithData(Result{
		Plans:     subscription.Options(selected),
		BasePrice: plans.BasePrice(),
		Selected:  selected,
		DemoCards: DemoCards{
			Success: checkout.DemoCardSuccess,
			Failure: checkout.DemoCardFailure,
		},
	}))
}
