package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	stdstrings "strings"
	"time"

	"github.com/joho/godotenv"

	"consortium/pkg/platform/strings"
)

// Config is the full runtime configuration of the settlement server.
type Config struct {
	Server     Server
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Settlement SettlementConfig
	Logging    LoggingConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	JWTIssuer       string
	JWTAudience     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the Postgres store. An empty URL runs in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig backs the range lock. An empty URL uses the in-process lock.
type RedisConfig struct {
	URL          string
	KeyPrefix    string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig drives movement ingestion and the audit outbox relay.
// No brokers disables both.
type KafkaConfig struct {
	Brokers        []string
	MovementsTopic string
	ConsumerGroup  string
	AuditTopic     string
	RelayInterval  time.Duration
	RelayBatchSize int
}

type SettlementConfig struct {
	LockTTL          time.Duration
	TxTimeout        time.Duration
	BreakerFailures  int
	BreakerSuccesses int
	AuditBuffer      int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var p parser
	cfg := Config{
		Server: Server{
			Addr:            p.str("CONSORTIUM_ADDR", ":8080"),
			JWTSigningKey:   p.str("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:       p.str("JWT_ISSUER", "consortium"),
			JWTAudience:     p.str("JWT_AUDIENCE", "settlement-operators"),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			URL:             p.str("DATABASE_URL", ""),
			MaxOpenConns:    p.integer("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    p.integer("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          p.str("REDIS_URL", ""),
			KeyPrefix:    p.str("REDIS_KEY_PREFIX", "consortium:lock:"),
			PoolSize:     p.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:        strings.SplitList(p.str("KAFKA_BROKERS", ""), ","),
			MovementsTopic: p.str("KAFKA_MOVEMENTS_TOPIC", "coin-movements"),
			ConsumerGroup:  p.str("KAFKA_CONSUMER_GROUP", "settlement-ingest"),
			AuditTopic:     p.str("KAFKA_AUDIT_TOPIC", "settlement-audit"),
			RelayInterval:  p.duration("OUTBOX_RELAY_INTERVAL", time.Second),
			RelayBatchSize: p.integer("OUTBOX_RELAY_BATCH_SIZE", 100),
		},
		Settlement: SettlementConfig{
			LockTTL:          p.duration("SETTLEMENT_LOCK_TTL", 30*time.Second),
			TxTimeout:        p.duration("SETTLEMENT_TX_TIMEOUT", 5*time.Second),
			BreakerFailures:  p.integer("SETTLEMENT_BREAKER_FAILURES", 5),
			BreakerSuccesses: p.integer("SETTLEMENT_BREAKER_SUCCESSES", 3),
			AuditBuffer:      p.integer("AUDIT_BUFFER", 1024),
		},
		Logging: LoggingConfig{
			Level:  stdstrings.ToLower(p.str("LOG_LEVEL", "info")),
			Format: stdstrings.ToLower(p.str("LOG_FORMAT", "json")),
		},
	}
	if p.err != nil {
		return Config{}, p.err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Settlement.LockTTL <= 0 {
		errs = append(errs, errors.New("SETTLEMENT_LOCK_TTL must be positive"))
	}
	if c.Settlement.TxTimeout <= 0 {
		errs = append(errs, errors.New("SETTLEMENT_TX_TIMEOUT must be positive"))
	}
	if c.Kafka.RelayBatchSize <= 0 {
		errs = append(errs, errors.New("OUTBOX_RELAY_BATCH_SIZE must be positive"))
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not json or text", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// parser keeps the first malformed variable it meets.
type parser struct {
	err error
}

func (p *parser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return d
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}
