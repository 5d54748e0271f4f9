package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается, когда конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Backend хранилища кэша
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig   `toml:"server"`
	Logs                LogsConfig     `toml:"logs"`
	Database            DatabaseConfig `toml:"database"`
	Redis               RedisConfig    `toml:"redis"`
	Cache               CacheConfig    `toml:"cache"`
	Retry               RetryConfig    `toml:"retry"`
	Session             SessionConfig  `toml:"session"`
	HotelService        ServiceConfig  `toml:"hotel_service"`
	PaymentService      ServiceConfig  `toml:"payment_service"`
	NotificationService ServiceConfig  `toml:"notification_service"`
	Queue               QueueConfig    `toml:"queue"`
	Metrics             MetricsConfig  `toml:"metrics"`
}

// ServerConfig HTTP сервер (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig логирование
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// DatabaseConfig PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig Redis (общий кэш и очередь событий)
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	QueueDB  int    `toml:"queue_db"`
}

// CacheConfig кэш доступности и цен
type CacheConfig struct {
	Backend                string `toml:"backend"` // memory | redis
	Prefix                 string `toml:"prefix"`
	AvailabilityTTLSeconds int    `toml:"availability_ttl_seconds"`
	PricingTTLSeconds      int    `toml:"pricing_ttl_seconds"`
	JanitorIntervalSeconds int    `toml:"janitor_interval_seconds"`
	StatsIntervalSeconds   int    `toml:"stats_interval_seconds"`
	MaxStaleRefetch        int    `toml:"max_stale_refetch"`
}

// AvailabilityTTL время жизни снимка доступности
func (c CacheConfig) AvailabilityTTL() time.Duration {
	return time.Duration(c.AvailabilityTTLSeconds) * time.Second
}

// PricingTTL время жизни расчета цены
func (c CacheConfig) PricingTTL() time.Duration {
	return time.Duration(c.PricingTTLSeconds) * time.Second
}

// JanitorInterval период очистки просроченных записей
func (c CacheConfig) JanitorInterval() time.Duration {
	return time.Duration(c.JanitorIntervalSeconds) * time.Second
}

// StatsInterval период записи счетчиков кэша в лог
func (c CacheConfig) StatsInterval() time.Duration {
	return time.Duration(c.StatsIntervalSeconds) * time.Second
}

// RetryConfig повторы при временных ошибках внешних сервисов
type RetryConfig struct {
	MaxAttempts        int `toml:"max_attempts"`
	MaxPaymentAttempts int `toml:"max_payment_attempts"`
	InitialIntervalMs  int `toml:"initial_interval_ms"`
	MaxIntervalMs      int `toml:"max_interval_ms"`
	// Общий лимит на отправку брони: сверка цены и все попытки оплаты.
	// Отсчитывается независимо от HTTP-запроса клиента.
	SubmitTimeoutSeconds int `toml:"submit_timeout_seconds"`
}

// InitialInterval первая задержка
func (c RetryConfig) InitialInterval() time.Duration {
	return time.Duration(c.InitialIntervalMs) * time.Millisecond
}

// MaxInterval максимальная задержка
func (c RetryConfig) MaxInterval() time.Duration {
	return time.Duration(c.MaxIntervalMs) * time.Millisecond
}

// SubmitTimeout лимит на отправку брони
func (c RetryConfig) SubmitTimeout() time.Duration {
	return time.Duration(c.SubmitTimeoutSeconds) * time.Second
}

// SessionConfig сессии пользователей
type SessionConfig struct {
	IdleTTLMinutes       int `toml:"idle_ttl_minutes"`
	SweepIntervalSeconds int `toml:"sweep_interval_seconds"`
}

// IdleTTL время простоя, после которого сессия удаляется
func (c SessionConfig) IdleTTL() time.Duration {
	return time.Duration(c.IdleTTLMinutes) * time.Minute
}

// SweepInterval период очистки сессий
func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// ServiceConfig внешний HTTP сервис
type ServiceConfig struct {
	URL     string  `toml:"url"`
	Timeout int     `toml:"timeout"` // секунды
	RPS     float64 `toml:"rps"`     // 0 - без ограничения
}

// QueueConfig очередь исходящих событий (asynq)
type QueueConfig struct {
	Enabled          bool   `toml:"enabled"`
	Name             string `toml:"name"`
	Concurrency      int    `toml:"concurrency"`
	MaxRetry         int    `toml:"max_retry"`
	RetentionMinutes int    `toml:"retention_minutes"`
}

// Retention сколько хранить выполненную задачу
func (c QueueConfig) Retention() time.Duration {
	return time.Duration(c.RetentionMinutes) * time.Minute
}

// MetricsConfig Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			QueueDB: 1,
		},
		Cache: CacheConfig{
			Backend:                CacheBackendMemory,
			Prefix:                 "travelbooking:",
			AvailabilityTTLSeconds: 240,
			PricingTTLSeconds:      90,
			JanitorIntervalSeconds: 60,
			StatsIntervalSeconds:   300,
			MaxStaleRefetch:        3,
		},
		Retry: RetryConfig{
			MaxAttempts:          3,
			MaxPaymentAttempts:   3,
			InitialIntervalMs:    200,
			MaxIntervalMs:        2000,
			SubmitTimeoutSeconds: 60,
		},
		Session: SessionConfig{
			IdleTTLMinutes:       60,
			SweepIntervalSeconds: 300,
		},
		HotelService:        ServiceConfig{Timeout: 5, RPS: 50},
		PaymentService:      ServiceConfig{Timeout: 15},
		NotificationService: ServiceConfig{Timeout: 5, RPS: 20},
		Queue: QueueConfig{
			Enabled:          true,
			Name:             "bookings",
			Concurrency:      5,
			MaxRetry:         10,
			RetentionMinutes: 24 * 60,
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "travelbooking",
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию и проверяет ее
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	case c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendRedis:
		return fmt.Errorf("%w: cache.backend must be %q or %q", ErrInvalidConfig, CacheBackendMemory, CacheBackendRedis)
	case c.Cache.AvailabilityTTLSeconds <= 0:
		return fmt.Errorf("%w: cache.availability_ttl_seconds must be positive", ErrInvalidConfig)
	case c.Cache.PricingTTLSeconds <= 0:
		return fmt.Errorf("%w: cache.pricing_ttl_seconds must be positive", ErrInvalidConfig)
	case c.Cache.Backend == CacheBackendMemory && c.Cache.JanitorIntervalSeconds <= 0:
		return fmt.Errorf("%w: cache.janitor_interval_seconds must be positive", ErrInvalidConfig)
	case c.Cache.StatsIntervalSeconds <= 0:
		return fmt.Errorf("%w: cache.stats_interval_seconds must be positive", ErrInvalidConfig)
	case (c.Cache.Backend == CacheBackendRedis || c.Queue.Enabled) && c.Redis.Addr == "":
		return fmt.Errorf("%w: redis.addr is required for the redis cache and the event queue", ErrInvalidConfig)
	case c.Cache.MaxStaleRefetch < 1:
		return fmt.Errorf("%w: cache.max_stale_refetch must be at least 1", ErrInvalidConfig)
	case c.Retry.MaxAttempts < 1 || c.Retry.MaxPaymentAttempts < 1:
		return fmt.Errorf("%w: retry attempts must be at least 1", ErrInvalidConfig)
	case c.Retry.InitialIntervalMs <= 0 || c.Retry.MaxIntervalMs < c.Retry.InitialIntervalMs:
		return fmt.Errorf("%w: retry intervals must be positive and max >= initial", ErrInvalidConfig)
	case c.Retry.SubmitTimeoutSeconds <= 0:
		return fmt.Errorf("%w: retry.submit_timeout_seconds must be positive", ErrInvalidConfig)
	case c.HotelService.URL == "":
		return fmt.Errorf("%w: hotel_service.url is required", ErrInvalidConfig)
	case c.PaymentService.URL == "":
		return fmt.Errorf("%w: payment_service.url is required", ErrInvalidConfig)
	case c.NotificationService.URL == "":
		return fmt.Errorf("%w: notification_service.url is required", ErrInvalidConfig)
	case c.Queue.Enabled && c.Queue.Concurrency < 1:
		return fmt.Errorf("%w: queue.concurrency must be at least 1", ErrInvalidConfig)
	case c.Metrics.Enabled && c.Metrics.Path == "":
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	return nil
}
