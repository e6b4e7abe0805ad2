package marketplace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/estate-marketplace/internal/cache"
	"github.com/magabrotheeeer/estate-marketplace/internal/config"
	checkouthandler "github.com/magabrotheeeer/estate-marketplace/internal/http/handlers/subscription/checkout"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/cardvalidate"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/estate-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/estate-marketplace/internal/metrics"
	"github.com/magabrotheeeer/estate-marketplace/internal/navigation"
	"github.com/magabrotheeeer/estate-marketplace/internal/notify"
	"github.com/magabrotheeeer/estate-marketplace/internal/paymentclient"
	"github.com/magabrotheeeer/estate-marketplace/internal/services/checkout"
)

const (
	// flashTTL — сколько flash-уведомление ждёт следующую страницу.
	flashTTL = 5 * time.Minute
	// gateTTLMargin — запас блокировки сверх таймаута платёжного запроса:
	// блокировка берётся до запроса и должна пережить его.
	gateTTLMargin = 5 * time.Second
)

type App struct {
	server    *http.Server
	logger    *slog.Logger
	cache     *cache.Cache
	amqpConn  *amqp.Connection
	publisher *rabbitmq.Publisher
}

// New собирает приложение. Redis и RabbitMQ необязательны: без адреса сервис
// работает без распределённой блокировки, flash-уведомлений и публикации событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	notifiers := checkout.Multi{notify.NewLogNotifier(logger)}
	var gate checkout.Gate
	deps := Deps{
		Tokens: jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL),
		Routes: navigation.Routes{
			SignIn:    cfg.Navigation.SignInPath,
			Dashboard: cfg.Navigation.DashboardPath,
		},
		RateLimit: cfg.RateLimit,
	}

	if cfg.RedisConnection.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		app.cache = cacheRedis
		gate = cache.NewSubmissionGate(cacheRedis, cfg.PaymentEndpoint.Timeout+gateTTLMargin)
		flashStore := notify.NewFlashStore(cacheRedis, flashTTL, logger)
		notifiers = append(notifiers, flashStore)
		deps.Flash = flashStore
		deps.Redis = cacheRedis
	} else {
		logger.Warn("redis address is empty, submission gate and flash notifications disabled")
	}

	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
		if err != nil {
			app.closeBackends()
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.GetNotificationQueues(cfg.RabbitMQ.RoutingKey))
		if err != nil {
			_ = conn.Close()
			app.closeBackends()
			return nil, err
		}
		app.amqpConn = conn
		app.publisher = rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)
		notifiers = append(notifiers, notify.NewBrokerNotifier(app.publisher, logger))
	} else {
		logger.Warn("rabbitmq url is empty, checkout notifications are only logged")
	}

	client := paymentclient.NewClient(cfg.PaymentEndpoint.BaseURL, cfg.PaymentEndpoint.Path, cfg.PaymentEndpoint.Timeout)
	checkoutMetrics := metrics.NewCheckout(prometheus.DefaultRegisterer)
	validator := cardvalidate.New()

	deps.NewController = func() checkouthandler.Controller {
		return checkout.New(checkout.Options{
			Client:    client,
			Notifier:  notifiers,
			Validator: validator,
			Gate:      gate,
			Metrics:   checkoutMetrics,
			Delay:     cfg.Navigation.RedirectDelay,
		}, logger)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, deps)

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	logger.Info("payment endpoint configured", slog.String("endpoint", client.Endpoint()))
	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeBackends()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeBackends()
		return err
	}
}

func (a *App) closeBackends() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
}
