// Package health отвечает на проверку живости сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-marketplace/internal/http/response"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/sl"
)

// Pinger — необязательная зависимость, чья доступность попадает в ответ.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	log   *slog.Logger
	redis Pinger
}

// New создаёт Handler. redis может быть nil, если кэш не настроен.
func New(log *slog.Logger, redis Pinger) *Handler {
	return &Handler{
		log:   log,
		redis: redis,
	}
}

// ServeHTTP godoc
// @Summary Проверка живости
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Сервис работает"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	data := map[string]any{"status": "ok"}
	if h.redis != nil {
		data["redis"] = "ok"
		if err := h.redis.Ping(r.Context()); err != nil {
			h.log.Warn("redis ping failed", slog.String("op", op), sl.Err(err))
			data["redis"] = "unavailable"
		}
	}
	render.JSON(w, r, response.StatusOKWithData(data))
}
