// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      HTTPServer      `yaml:"http_server"`
	PaymentEndpoint PaymentEndpoint `yaml:"payment_endpoint"`
	RedisConnection RedisConnection `yaml:"redis_connection"`
	RabbitMQ        RabbitMQ        `yaml:"rabbitmq"`
	JWTToken        JWTToken        `yaml:"jwttoken"`
	Navigation      Navigation      `yaml:"navigation"`
	RateLimit       RateLimit       `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// PaymentEndpoint описывает внешний эндпоинт обработки демо-платежей
type PaymentEndpoint struct {
	BaseURL string        `yaml:"base_url" env:"PAYMENT_BASE_URL" env-required:"true"`
	Path    string        `yaml:"path" env-default:"/api/payment/demo"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает распределённую блокировку повторной отправки.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQ структура для публикации уведомлений. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"notifications"`
	RoutingKey string        `yaml:"routing_key" env-default:"checkout"`
	Retries    int           `yaml:"retries" env-default:"3"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// JWTToken структура для работы с jwt-токеном сессии продавца
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Navigation пути для перенаправления после оплаты и задержка перед ним
type Navigation struct {
	SignInPath    string        `yaml:"sign_in_path" env-default:"/seller/signin"`
	DashboardPath string        `yaml:"dashboard_path" env-default:"/seller/dashboard"`
	RedirectDelay time.Duration `yaml:"redirect_delay" env-default:"2s"`
}

// RateLimit настройки ограничения частоты отправки формы оплаты
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"3"`
}

// Load читает конфиг из файла по указанному пути.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, configPath, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// String возвращает конфиг без секретов, для вывода в лог при старте.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"PaymentEndpoint:\n"+
			"  URL: %s%s\n"+
			"  Timeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n"+
			"Navigation:\n"+
			"  SignIn: %s\n"+
			"  Dashboard: %s\n"+
			"  Delay: %s\n",
		c.Env,
		c.HTTPServer.AddressHTTP,
		c.HTTPServer.TimeoutHTTP,
		c.HTTPServer.IdleTimeout,
		c.PaymentEndpoint.BaseURL,
		c.PaymentEndpoint.Path,
		c.PaymentEndpoint.Timeout,
		c.RedisConnection.AddressRedis,
		c.RedisConnection.DB,
		c.RabbitMQ.URL != "",
		c.RabbitMQ.Exchange,
		c.Navigation.SignInPath,
		c.Navigation.DashboardPath,
		c.Navigation.RedirectDelay,
	)
}
