// Package config carga la configuración del proceso desde el entorno (y un .env opcional).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DeliveryLogNone       = "none"
	DeliveryLogClickHouse = "clickhouse"
	DeliveryLogMongo      = "mongo"
)

type Config struct {
	AppMode  string `env:"APP_MODE" envDefault:"development"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"./ordersaga.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	CacheTTL  int    `env:"CACHE_TTL" envDefault:"60"`

	UseKafka     bool     `env:"USE_KAFKA" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"ordersaga"`

	OutboxPeriod     time.Duration `env:"OUTBOX_PERIOD" envDefault:"5s"`
	OutboxLimit      int           `env:"OUTBOX_LIMIT" envDefault:"10"`
	OutboxMaxRetries int           `env:"OUTBOX_MAX_RETRIES" envDefault:"3"`

	DeliveryLog    string `env:"DELIVERY_LOG" envDefault:"none"`
	ClickHouseAddr string `env:"CLICKHOUSE_ADDR" envDefault:"localhost:9000"`
	ClickHouseDB   string `env:"CLICKHOUSE_DB" envDefault:"default"`
	MongoURI       string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB        string `env:"MONGO_DB" envDefault:"ordersaga"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LoadConfig lee .env si existe y después el entorno, que tiene prioridad.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q (want sqlite or postgres)", c.DBDriver))
	}
	if c.OutboxPeriod <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_PERIOD must be positive, got %s", c.OutboxPeriod))
	}
	if c.OutboxLimit <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_LIMIT must be positive, got %d", c.OutboxLimit))
	}
	if c.OutboxMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_MAX_RETRIES must not be negative, got %d", c.OutboxMaxRetries))
	}
	switch c.DeliveryLog {
	case DeliveryLogNone, DeliveryLogClickHouse, DeliveryLogMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown DELIVERY_LOG %q", c.DeliveryLog))
	}
	if c.UseKafka && len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when USE_KAFKA=true"))
	}
	return errors.Join(errs...)
}

// IsProduction indica si los logs deben salir en JSON.
func (c *Config) IsProduction() bool {
	return c.AppMode == "production"
}
