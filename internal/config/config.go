package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the pipeline.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Outbox      OutboxConfig
	ObjectStore ObjectStoreConfig
	Simulator   SimulatorConfig
	Dedup       DedupConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxConn       int
	EnablePprof   bool
	EnableMetrics bool
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// KafkaConfig drives both the event consumer and the publisher.
type KafkaConfig struct {
	Brokers       []string
	EventsTopic   string
	GroupID       string
	BatchSize     int
	BatchTimeout  time.Duration
	CommitOnError bool
}

// OutboxConfig controls the on-disk retry queue for failed publishes.
type OutboxConfig struct {
	Path           string
	DrainInterval  time.Duration
	DrainBatchSize int
	MaxRetry       int
	RetentionHours int
}

// ObjectStoreConfig locates generated report files and signs download links.
type ObjectStoreConfig struct {
	Root          string
	SigningSecret string
	URLTTL        time.Duration
}

// SimulatorConfig drives the synthetic transaction generator.
type SimulatorConfig struct {
	Enabled  bool
	Schedule string
	MinBatch int
	MaxBatch int
}

type DedupConfig struct {
	Enabled bool
	TTL     time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "shoppulse-pipeline"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:          getString("SERVER_HOST", "0.0.0.0"),
			Port:          getString("SERVER_PORT", "8080"),
			ReadTimeout:   getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:   getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:       getInt("SERVER_MAX_CONN", 0),
			EnablePprof:   getBool("SERVER_ENABLE_PPROF", false),
			EnableMetrics: getBool("SERVER_ENABLE_METRICS", true),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "shoppulse"),
			User:            getString("DB_USER", "shoppulse"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:       getStrings("KAFKA_BROKERS", []string{"localhost:9092"}),
			EventsTopic:   getString("KAFKA_EVENTS_TOPIC", "ecommerce.events"),
			GroupID:       getString("KAFKA_GROUP_ID", "shoppulse-pipeline"),
			BatchSize:     getInt("KAFKA_BATCH_SIZE", 100),
			BatchTimeout:  getDuration("KAFKA_BATCH_TIMEOUT", time.Second),
			CommitOnError: getBool("KAFKA_COMMIT_ON_ERROR", true),
		},
		Outbox: OutboxConfig{
			Path:           getString("OUTBOX_PATH", "./data/outbox.db"),
			DrainInterval:  getDuration("OUTBOX_DRAIN_INTERVAL", 30*time.Second),
			DrainBatchSize: getInt("OUTBOX_DRAIN_BATCH_SIZE", 50),
			MaxRetry:       getInt("OUTBOX_MAX_RETRY", 5),
			RetentionHours: getInt("OUTBOX_RETENTION_HOURS", 24),
		},
		ObjectStore: ObjectStoreConfig{
			Root:          getString("REPORTS_ROOT", "./data/reports"),
			SigningSecret: getString("REPORTS_SIGNING_SECRET", "dev-only-secret"),
			URLTTL:        getDuration("REPORTS_URL_TTL", time.Hour),
		},
		Simulator: SimulatorConfig{
			Enabled:  getBool("SIMULATOR_ENABLED", false),
			Schedule: getString("SIMULATOR_SCHEDULE", "@every 1m"),
			MinBatch: getInt("SIMULATOR_MIN_BATCH", 1),
			MaxBatch: getInt("SIMULATOR_MAX_BATCH", 5),
		},
		Dedup: DedupConfig{
			Enabled: getBool("DEDUP_ENABLED", true),
			TTL:     getDuration("DEDUP_TTL", 24*time.Hour),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getStrings(key string, fallback []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		out := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
