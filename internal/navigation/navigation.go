// Package navigation описывает отложенные переходы после оплаты.
// Разрешены только два направления: страница входа и кабинет продавца.
package navigation

import (
	"log/slog"
	"sync"
	"time"
)

// Destination — направление перехода.
type Destination string

const (
	// SignIn — страница входа продавца.
	SignIn Destination = "sign-in"
	// Dashboard — кабинет продавца.
	Dashboard Destination = "dashboard"
)

// Plan — запланированный переход: куда и через сколько.
type Plan struct {
	Destination Destination
	After       time.Duration
}

// Navigator выполняет переход.
type Navigator interface {
	Navigate(dest Destination)
}

// NavigatorFunc позволяет использовать функцию как Navigator.
type NavigatorFunc func(dest Destination)

// Navigate вызывает f(dest).
func (f NavigatorFunc) Navigate(dest Destination) { f(dest) }

// Routes сопоставляет направления с путями приложения.
type Routes struct {
	SignIn    string
	Dashboard string
}

// Path возвращает путь для направления, пустую строку для неизвестного.
func (r Routes) Path(dest Destination) string {
	switch dest {
	case SignIn:
		return r.SignIn
	case Dashboard:
		return r.Dashboard
	default:
		return ""
	}
}

// Scheduler откладывает переходы таймерами. Close отменяет все ожидающие
// переходы; после Close новые переходы не планируются.
type Scheduler struct {
	navigator Navigator
	log       *slog.Logger

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

// NewScheduler создаёт планировщик поверх navigator.
func NewScheduler(navigator Navigator, log *slog.Logger) *Scheduler {
	return &Scheduler{
		navigator: navigator,
		log:       log,
		timers:    make(map[*time.Timer]struct{}),
	}
}

// Schedule планирует переход. Возвращает false, если планировщик уже закрыт.
func (s *Scheduler) Schedule(p Plan) bool {
	const op = "navigation.Schedule"

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	var t *time.Timer
	t = time.AfterFunc(p.After, func() {
		s.mu.Lock()
		_, pending := s.timers[t]
		delete(s.timers, t)
		closed := s.closed
		s.mu.Unlock()

		if !pending || closed {
			return
		}
		s.navigator.Navigate(p.Destination)
	})
	s.timers[t] = struct{}{}

	s.log.Debug("navigation scheduled",
		slog.String("op", op),
		slog.String("destination", string(p.Destination)),
		slog.Duration("after", p.After),
	)
	return true
}

// Pending возвращает число ещё не сработавших переходов.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close отменяет все ожидающие переходы. Повторный вызов безопасен.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for t := range s.timers {
		t.Stop()
		delete(s.timers, t)
	}
}
