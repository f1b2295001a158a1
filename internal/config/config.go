package config

import "time"

type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Auth         AuthConfig
	Leave        LeaveConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
	Log          LogConfig
}

type AppConfig struct {
	Name   string `env:"APP_NAME"   env-default:"personnel-management"`
	Locale string `env:"APP_LOCALE" env-default:"en"`
}

type ServerConfig struct {
	Port            string        `env:"PORT"                    env-default:"3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST"         env-default:"localhost"`
	Port        string `env:"DB_PORT"         env-default:"5432"`
	User        string `env:"DB_USER"         env-default:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME"         env-default:"personnel"`
	SSLMode     string `env:"DB_SSLMODE"      env-default:"disable"`
	MaxRetries  int    `env:"DB_MAX_RETRIES"  env-default:"5"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

type RedisConfig struct {
	Addr       string `env:"REDIS_ADDR"        env-default:"localhost:6379"`
	MaxRetries int    `env:"REDIS_MAX_RETRIES" env-default:"5"`
}

type KafkaConfig struct {
	Broker       string        `env:"KAFKA_BROKER"`
	MaxRetries   int           `env:"KAFKA_MAX_RETRIES"   env-default:"5"`
	PollInterval time.Duration `env:"KAFKA_POLL_INTERVAL" env-default:"3s"`
	GroupID      string        `env:"KAFKA_GROUP_ID"      env-default:"personnel-management"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type LeaveConfig struct {
	DefaultAllowanceDays int `env:"LEAVE_DEFAULT_ALLOWANCE_DAYS" env-default:"12"`
}

// Notification mode "inline" notifies in-process after each decision,
// "outbox" records an outbox row that the worker relays to Kafka and
// "kafka" writes the event to the broker directly.
type NotificationConfig struct {
	Mode        string        `env:"NOTIFICATION_MODE"         env-default:"inline"`
	PushTimeout time.Duration `env:"NOTIFICATION_PUSH_TIMEOUT" env-default:"3s"`
}

const (
	NotificationModeInline = "inline"
	NotificationModeOutbox = "outbox"
	NotificationModeKafka  = "kafka"
)

type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS"   env-default:"10"`
	Burst             int     `env:"RATE_LIMIT_BURST" env-default:"20"`
}

type LogConfig struct {
	Level       string `env:"LOG_LEVEL"       env-default:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" env-default:"false"`
}
