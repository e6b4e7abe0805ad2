// Package notify доставляет уведомления о результате оплаты за пределы запроса:
// публикует события в брокер и сохраняет flash-сообщение, которое фронтенд
// покажет после перехода на следующую страницу.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/estate-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/estate-marketplace/internal/services/checkout"
)

// Publisher отправляет сообщение в брокер.
type Publisher interface {
	Publish(message any) error
}

// Event — сообщение о попытке оплаты для сервиса рассылок.
type Event struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	checkout.Notification
}

// BrokerNotifier публикует уведомления в RabbitMQ. Ошибка публикации только логируется:
// продавец уже получил сообщение в ответе.
type BrokerNotifier struct {
	pub Publisher
	log *slog.Logger
}

// NewBrokerNotifier создаёт BrokerNotifier.
func NewBrokerNotifier(pub Publisher, log *slog.Logger) *BrokerNotifier {
	return &BrokerNotifier{pub: pub, log: log}
}

// Notify публикует событие.
func (b *BrokerNotifier) Notify(_ context.Context, n checkout.Notification) {
	const op = "notify.BrokerNotifier.Notify"
	ev := Event{ID: uuid.NewString(), OccurredAt: time.Now().UTC(), Notification: n}
	if err := b.pub.Publish(ev); err != nil {
		b.log.Error("failed to publish notification",
			slog.String("op", op),
			slog.String("seller_id", n.SellerID),
			sl.Err(err),
		)
	}
}

// LogNotifier пишет уведомление в лог.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier создаёт LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify логирует уведомление. Карта выводится только последними цифрами.
func (l *LogNotifier) Notify(_ context.Context, n checkout.Notification) {
	level := slog.LevelInfo
	if n.Level == checkout.LevelError {
		level = slog.LevelWarn
	}
	attrs := []any{
		slog.String("kind", string(n.Kind)),
		slog.String("seller_id", n.SellerID),
		slog.String("plan_type", n.PlanType),
	}
	if n.Last4 != "" {
		attrs = append(attrs, sl.Card(n.Last4))
	}
	l.log.Log(context.Background(), level, n.Message, attrs...)
}

// Cache — хранилище flash-сообщений.
type Cache interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	GetDel(ctx context.Context, key string, result any) (bool, error)
}

// FlashStore хранит последнее уведомление продавца до первого чтения или истечения ttl.
type FlashStore struct {
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewFlashStore создаёт FlashStore.
func NewFlashStore(c Cache, ttl time.Duration, log *slog.Logger) *FlashStore {
	return &FlashStore{cache: c, ttl: ttl, log: log}
}

func flashKey(sellerID string) string {
	return "flash:" + sellerID
}

// Notify сохраняет уведомление. Без продавца сохранять некуда.
func (f *FlashStore) Notify(ctx context.Context, n checkout.Notification) {
	const op = "notify.FlashStore.Notify"
	if n.SellerID == "" {
		return
	}
	if err := f.cache.Set(ctx, flashKey(n.SellerID), n, f.ttl); err != nil {
		f.log.Warn("failed to store flash notification", slog.String("op", op), sl.Err(err))
	}
}

// Pop возвращает и удаляет flash-уведомление продавца одной операцией,
// поэтому уведомление достаётся только одному запросу. nil — уведомления нет.
func (f *FlashStore) Pop(ctx context.Context, sellerID string) (*checkout.Notification, error) {
	const op = "notify.FlashStore.Pop"
	var n checkout.Notification
	found, err := f.cache.GetDel(ctx, flashKey(sellerID), &n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, nil
	}
	return &n, nil
}
