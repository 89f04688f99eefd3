package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config описывает настройки приложения, читаемые из переменных окружения.
type Config struct {
	HTTPAddr    string `env:"ORDERS_HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"ORDERS_METRICS_ADDR" envDefault:":9090"`

	// DatabaseDSN пустой — заказы хранятся в памяти.
	DatabaseDSN string `env:"ORDERS_DATABASE_DSN"`

	// KafkaBrokers пустой — события жизненного цикла не публикуются.
	KafkaBrokers []string `env:"ORDERS_KAFKA_BROKERS" envSeparator:","`

	// URL-ы внешних сервисов. Пустой URL включает mock-клиент соответствующего
	// сервиса (для локального запуска и демо).
	UserServiceURL         string `env:"ORDERS_USER_SERVICE_URL"`
	PaymentServiceURL      string `env:"ORDERS_PAYMENT_SERVICE_URL"`
	NotificationServiceURL string `env:"ORDERS_NOTIFICATION_SERVICE_URL"`

	ClientTimeout time.Duration `env:"ORDERS_CLIENT_TIMEOUT" envDefault:"10s"`
	LogLevel      string        `env:"ORDERS_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig читает конфигурацию из окружения.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":8080",
		MetricsAddr:   ":9090",
		ClientTimeout: 10 * time.Second,
		LogLevel:      "info",
	}
}
