// Package paymentclient — HTTP-клиент внешнего эндпоинта демо-платежей.
// Клиент отправляет только сумму, срок, тип тарифа и последние 4 цифры карты.
package paymentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/estate-marketplace/internal/models"
)

const maxBodySize = 1 << 20

// Client отправляет демо-платежи на фиксированный путь эндпоинта.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient создаёт клиент для baseURL + path с таймаутом запроса.
func NewClient(baseURL, path string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient подменяет http.Client, например для тестов.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Endpoint возвращает полный URL эндпоинта.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) newRequest(ctx context.Context, sessionToken string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())
	if sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+sessionToken)
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	return req, nil
}

// ProcessPayment отправляет PaymentRequest с токеном сессии продавца.
//
// Возвращаемые ошибки:
//   - ErrUnauthorized при статусе 401;
//   - *RejectedError при другом не-2xx статусе или success:false;
//   - ErrTransport, если запрос не завершился или ответ 2xx не разобран.
func (c *Client) ProcessPayment(ctx context.Context, sessionToken string, payment models.PaymentRequest) (*models.PaymentResponse, error) {
	const op = "paymentclient.ProcessPayment"

	req, err := c.newRequest(ctx, sessionToken, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: %w", op, &RejectedError{
			StatusCode: resp.StatusCode,
			Message:    messageOrDefault(body),
		})
	}

	var paymentResp models.PaymentResponse
	if err := json.Unmarshal(body, &paymentResp); err != nil {
		return nil, fmt.Errorf("%s: %w: decode response: %v", op, ErrTransport, err)
	}
	if !paymentResp.Success {
		msg := paymentResp.Message
		if msg == "" {
			msg = DefaultFailureMessage
		}
		return nil, fmt.Errorf("%s: %w", op, &RejectedError{StatusCode: resp.StatusCode, Message: msg})
	}
	return &paymentResp, nil
}

// messageOrDefault достаёт поле message из тела ошибки, тело может быть не JSON.
func messageOrDefault(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || strings.TrimSpace(payload.Message) == "" {
		return DefaultFailureMessage
	}
	return payload.Message
}

// IsRejected сообщает, отклонил ли эндпоинт платёж, и возвращает текст причины.
func IsRejected(err error) (string, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Message, true
	}
	return "", false
}
