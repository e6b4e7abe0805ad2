// Package flash отдаёт последнее уведомление о результате оплаты продавца.
package flash

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-marketplace/internal/http/response"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/estate-marketplace/internal/services/checkout"
)

// Store — хранилище flash-уведомлений.
type Store interface {
	Pop(ctx context.Context, sellerID string) (*checkout.Notification, error)
}

type Handler struct {
	log   *slog.Logger
	store Store
}

func New(log *slog.Logger, store Store) *Handler {
	return &Handler{
		log:   log,
		store: store,
	}
}

// ServeHTTP godoc
// @Summary Последнее уведомление
// @Description Возвращает и удаляет уведомление о последней попытке оплаты. Страница, на которую перешёл продавец, показывает его один раз
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=checkout.Notification} "Уведомление"
// @Success 204 "Уведомления нет"
// @Failure 401 {object} response.ErrorResponse "Нужен вход"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /notifications/flash [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notifications.flash"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	seller := middlewarectx.SellerFromContext(r.Context())
	if seller == nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	n, err := h.store.Pop(r.Context(), seller.ID)
	if err != nil {
		log.Error("failed to pop flash notification", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load notification"))
		return
	}
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(n))
}
