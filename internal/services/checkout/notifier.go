package checkout

import (
	"context"
	"sync"
)

// Level — уровень уведомления для продавца.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification — уведомление о результате попытки оплаты.
// На одну попытку приходится ровно одно уведомление.
type Notification struct {
	Level    Level  `json:"level"`
	Kind     Kind   `json:"kind"`
	Message  string `json:"message"`
	SellerID string `json:"seller_id,omitempty"`
	PlanType string `json:"plan_type,omitempty"`
	Last4    string `json:"last4,omitempty"`
}

// Notifier доставляет уведомления продавцу.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NopNotifier отбрасывает уведомления.
type NopNotifier struct{}

// Notify ничего не делает.
func (NopNotifier) Notify(context.Context, Notification) {}

// Recorder запоминает уведомления в памяти.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify сохраняет уведомление.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Notifications возвращает копию сохранённых уведомлений.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Multi рассылает уведомление всем получателям по очереди.
type Multi []Notifier

// Notify вызывает Notify у каждого получателя.
func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, nt := range m {
		nt.Notify(ctx, n)
	}
}
