package checkout

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/estate-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-marketplace/internal/models"
	"github.com/magabrotheeeer/estate-marketplace/internal/navigation"
	checkoutservice "github.com/magabrotheeeer/estate-marketplace/internal/services/checkout"
)

type MockController struct {
	mock.Mock
}

func (m *MockController) Submit(ctx context.Context, seller *models.Seller, in models.CardInput, p checkoutservice.Params) checkoutservice.Outcome {
	args := m.Called(ctx, seller, in, p)
	return args.Get(0).(checkoutservice.Outcome)
}

func (m *MockController) Close() {
	m.Called()
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var routes = navigation.Routes{SignIn: "/seller/signin", Dashboard: "/seller/dashboard"}

const validBody = `{"cycle":"annually","card_number":"4242424242424242","card_holder":"Jane Doe","expiry_date":"12/30","cvv":"123"}`

func TestCheckoutHandler(t *testing.T) {
	seller := &models.Seller{ID: "seller-1", SessionToken: "tok"}
	annual := checkoutservice.Params{Amount: 8988, Duration: 12, PlanType: "annually"}

	tests := []struct {
		name           string
		body           string
		seller         *models.Seller
		setupMock      func(*MockController)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:   "успешная оплата",
			body:   validBody,
			seller: seller,
			setupMock: func(m *MockController) {
				m.On("Submit", mock.Anything, seller, mock.Anything, annual).Return(checkoutservice.Outcome{
					Kind:       checkoutservice.KindSuccess,
					Message:    checkoutservice.MsgSuccess,
					Navigation: &navigation.Plan{Destination: navigation.Dashboard, After: 2 * time.Second},
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody: []string{
				`"status":"OK"`,
				`"outcome":"success"`,
				`"redirect_to":"/seller/dashboard"`,
				`"redirect_after_ms":2000`,
				`"amount":8988`,
			},
		},
		{
			name: "продавец не вошёл",
			body: validBody,
			setupMock: func(m *MockController) {
				m.On("Submit", mock.Anything, (*models.Seller)(nil), mock.Anything, annual).Return(checkoutservice.Outcome{
					Kind:       checkoutservice.KindAuthRequired,
					Message:    checkoutservice.MsgSignIn,
					Navigation: &navigation.Plan{Destination: navigation.SignIn, After: 2 * time.Second},
				})
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   []string{`"outcome":"auth_required"`, `"redirect_to":"/seller/signin"`},
		},
		{
			name:   "ошибка в форме",
			body:   validBody,
			seller: seller,
			setupMock: func(m *MockController) {
				m.On("Submit", mock.Anything, seller, mock.Anything, annual).Return(checkoutservice.Outcome{
					Kind:    checkoutservice.KindInvalid,
					Message: "Invalid CVV",
					Field:   models.FieldCVV,
				})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   []string{`"error":"Invalid CVV"`, `"field":"cvv"`},
		},
		{
			name:   "платёж отклонён",
			body:   validBody,
			seller: seller,
			setupMock: func(m *MockController) {
				m.On("Submit", mock.Anything, seller, mock.Anything, annual).Return(checkoutservice.Outcome{
					Kind:    checkoutservice.KindFailure,
					Message: "Card declined",
				})
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   []string{`"outcome":"failure"`, `"error":"Card declined"`},
		},
		{
			name:   "оплата уже выполняется",
			body:   validBody,
			seller: seller,
			setupMock: func(m *MockController) {
				m.On("Submit", mock.Anything, seller, mock.Anything, annual).Return(checkoutservice.Outcome{
					Kind:    checkoutservice.KindBusy,
					Message: checkoutservice.MsgInFlight,
				})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   []string{`"outcome":"busy"`},
		},
		{
			name:           "некорректный JSON",
			body:           `{"cycle":`,
			setupMock:      func(*MockController) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{`{"status":"Error","error":"invalid request body"}`},
		},
		{
			name:           "неизвестный тариф",
			body:           `{"cycle":"weekly"}`,
			setupMock:      func(*MockController) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   []string{`{"status":"Error","error":"unknown billing cycle"}`},
		},
		{
			name:   "регистр и пробелы в тарифе не важны",
			body:   `{"cycle":" Annually ","card_number":"4242424242424242","card_holder":"Jane Doe","expiry_date":"12/30","cvv":"123"}`,
			seller: seller,
			setupMock: func(m *MockController) {
				m.On("Submit", mock.Anything, seller, mock.Anything, annual).Return(checkoutservice.Outcome{
					Kind:    checkoutservice.KindSuccess,
					Message: checkoutservice.MsgSuccess,
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"plan_type":"annually"`},
		},
		{
			name:           "тариф не указан",
			body:           `{"card_number":"4242"}`,
			setupMock:      func(*MockController) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   []string{`field Cycle is a required field`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := new(MockController)
			tt.setupMock(ctrl)
			ctrl.On("Close").Maybe()

			h := New(newNoopLogger(), func() Controller { return ctrl }, routes)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/subscription/checkout", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.seller != nil {
				req = req.WithContext(middlewarectx.WithSeller(req.Context(), tt.seller))
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			for _, want := range tt.expectedBody {
				assert.Contains(t, rr.Body.String(), want)
			}
			ctrl.AssertExpectations(t)
		})
	}
}

func TestCheckoutHandler_PassesCardFieldsAndCloses(t *testing.T) {
	ctrl := new(MockController)
	ctrl.On("Submit", mock.Anything, mock.Anything, models.CardInput{
		CardNumber: "4242424242424242",
		CardHolder: "Jane Doe",
		ExpiryDate: "12/30",
		CVV:        "123",
	}, mock.Anything).Return(checkoutservice.Outcome{Kind: checkoutservice.KindFailure, Message: "Payment failed"}).Once()
	ctrl.On("Close").Once()

	h := New(newNoopLogger(), func() Controller { return ctrl }, routes)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscription/checkout", strings.NewReader(validBody))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusPaymentRequired, rr.Code)
	ctrl.AssertExpectations(t)
}
