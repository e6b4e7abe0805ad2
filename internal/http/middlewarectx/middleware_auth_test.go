package middlewarectx_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/estate-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/estate-marketplace/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSellerMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Hour)
	valid, err := maker.GenerateToken("seller-1", "agent@realty.com", "Jane")
	require.NoError(t, err)
	foreign, err := jwt.NewJWTMaker("other", time.Hour).GenerateToken("seller-1", "agent@realty.com", "Jane")
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantSeller bool
	}{
		{name: "no credentials", setup: func(*http.Request) {}},
		{name: "bearer header", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) }, wantSeller: true},
		{name: "session cookie", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: middlewarectx.TokenCookie, Value: valid})
		}, wantSeller: true},
		{name: "basic auth is ignored", setup: func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }},
		{name: "token signed with other key", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+foreign) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.Seller
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = middlewarectx.SellerFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()

			middlewarectx.SellerMiddleware(maker, newNoopLogger())(next).ServeHTTP(rr, req)

			assert.True(t, called, "middleware must never block the request")
			assert.Equal(t, http.StatusOK, rr.Code)
			if tt.wantSeller {
				require.NotNil(t, got)
				assert.Equal(t, "seller-1", got.ID)
				assert.Equal(t, "agent@realty.com", got.Email)
				assert.Equal(t, "Jane", got.Name)
				assert.Equal(t, valid, got.SessionToken)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestRequireSeller(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := middlewarectx.RequireSeller(newNoopLogger())(next)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"status":"Error","error":"unauthorized"}`, rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middlewarectx.WithSeller(req.Context(), &models.Seller{ID: "seller-1"}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 2)(next)

	codes := make([]int, 0, 3)
	for range 3 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
