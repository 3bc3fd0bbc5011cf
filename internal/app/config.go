package app

import (
	"os"
	"time"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// APIAddr — адрес HTTP API витрины.
	APIAddr string
	// MetricsAddr — адрес метрик и health check'ов.
	MetricsAddr string
	// PostgresDSN включает Postgres-хранилище; пустой DSN означает
	// in-memory хранилище (разработка и тесты).
	PostgresDSN string
	// KafkaBrokers — список брокеров через запятую; пустое значение
	// отключает публикацию событий.
	KafkaBrokers string
	// OutboxPollInterval — частота опроса transactional outbox.
	OutboxPollInterval time.Duration
}

// DefaultConfig возвращает базовые адреса сервисов.
func DefaultConfig() Config {
	return Config{
		APIAddr:            ":8080",
		MetricsAddr:        ":9090",
		OutboxPollInterval: time.Second,
	}
}

// ReadConfig дополняет дефолты переменными окружения.
func ReadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("STOREFRONT_API_ADDR"); v != "" {
		cfg.APIAddr = v
	}
	if v := os.Getenv("STOREFRONT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("STOREFRONT_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("STOREFRONT_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("STOREFRONT_OUTBOX_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.OutboxPollInterval = d
		}
	}
	return cfg
}
