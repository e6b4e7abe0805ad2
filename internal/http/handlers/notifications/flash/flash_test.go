package flash

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/estate-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-marketplace/internal/models"
	"github.com/magabrotheeeer/estate-marketplace/internal/services/checkout"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Pop(ctx context.Context, sellerID string) (*checkout.Notification, error) {
	args := m.Called(ctx, sellerID)
	if res := args.Get(0); res != nil {
		return res.(*checkout.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestFlashHandler(t *testing.T) {
	seller := &models.Seller{ID: "seller-1"}

	tests := []struct {
		name           string
		seller         *models.Seller
		setupMock      func(*MockStore)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "уведомление есть",
			seller: seller,
			setupMock: func(m *MockStore) {
				m.On("Pop", mock.Anything, "seller-1").Return(&checkout.Notification{
					Level:   checkout.LevelSuccess,
					Kind:    checkout.KindSuccess,
					Message: checkout.MsgSuccess,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   checkout.MsgSuccess,
		},
		{
			name:   "уведомления нет",
			seller: seller,
			setupMock: func(m *MockStore) {
				m.On("Pop", mock.Anything, "seller-1").Return(nil, nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "ошибка хранилища",
			seller: seller,
			setupMock: func(m *MockStore) {
				m.On("Pop", mock.Anything, "seller-1").Return(nil, errors.New("redis down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not load notification"}`,
		},
		{
			name:           "продавец не вошёл",
			setupMock:      func(*MockStore) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			tt.setupMock(store)
			h := New(newNoopLogger(), store)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/flash", nil)
			if tt.seller != nil {
				req = req.WithContext(middlewarectx.WithSeller(req.Context(), tt.seller))
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}
			store.AssertExpectations(t)
		})
	}
}
