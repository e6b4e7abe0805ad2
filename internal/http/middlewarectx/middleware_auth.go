// Package middlewarectx содержит HTTP middleware витрины.
//
// SellerMiddleware извлекает токен сессии продавца из заголовка Authorization
// или cookie "token", проверяет его и кладёт продавца в контекст запроса.
// Отсутствие или невалидность токена не прерывает запрос: продавец просто
// не попадает в контекст, а решение принимает обработчик.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-marketplace/internal/http/response"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/estate-marketplace/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Seller — ключ для *models.Seller в контексте.
const Seller Key = "seller"

// TokenCookie — имя cookie с токеном сессии.
const TokenCookie = "token"

// TokenParser проверяет токен сессии продавца.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// SellerFromContext возвращает продавца из контекста или nil.
func SellerFromContext(ctx context.Context) *models.Seller {
	s, _ := ctx.Value(Seller).(*models.Seller)
	return s
}

// WithSeller кладёт продавца в контекст.
func WithSeller(ctx context.Context, s *models.Seller) context.Context {
	return context.WithValue(ctx, Seller, s)
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// SellerMiddleware возвращает middleware, которое определяет текущего продавца.
func SellerMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SellerMiddleware"

			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Debug("session token rejected",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			seller := &models.Seller{
				ID:           claims.Subject,
				Email:        claims.Email,
				Name:         claims.Name,
				SessionToken: tokenStr,
			}
			next.ServeHTTP(w, r.WithContext(WithSeller(r.Context(), seller)))
		})
	}
}

// RequireSeller отвечает 401, если в контексте нет продавца.
func RequireSeller(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SellerFromContext(r.Context()) == nil {
				log.Info("seller required",
					slog.String("op", "middlewarectx.RequireSeller"),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
