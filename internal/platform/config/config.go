// Package config loads runtime configuration from the environment so main
// stays lean. Every value has a development default; production overrides via
// CRIVO_* variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	AdminToken    string
}

// Postgres captures the proposal store connection settings. An empty DSN
// selects the in-memory store.
type Postgres struct {
	DSN string
}

// Redis captures the analysis cache connection settings. An empty URL selects
// the in-memory cache.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka captures the audit event stream settings. No brokers means audit
// events stay local.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// Credit captures scoring engine tuning.
type Credit struct {
	EconomicRiskFactor int
	CacheTTL           time.Duration
}

// Audit captures audit pipeline tuning. A zero buffer means synchronous
// emission.
type Audit struct {
	BufferSize int
}

// Config aggregates all runtime configuration.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Credit   Credit
	Audit    Audit
}

// FromEnv builds the full configuration from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOr("CRIVO_ADDR", ":8080"),
			JWTSigningKey: envOr("CRIVO_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			AdminToken:    os.Getenv("CRIVO_ADMIN_TOKEN"),
		},
		Postgres: Postgres{
			DSN: os.Getenv("CRIVO_POSTGRES_DSN"),
		},
		Redis: Redis{
			URL:          os.Getenv("CRIVO_REDIS_URL"),
			PoolSize:     envInt("CRIVO_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CRIVO_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("CRIVO_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("CRIVO_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("CRIVO_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:    envList("CRIVO_KAFKA_BROKERS"),
			AuditTopic: envOr("CRIVO_KAFKA_AUDIT_TOPIC", "crivo.audit.events"),
		},
		Credit: Credit{
			EconomicRiskFactor: envInt("CRIVO_ECONOMIC_RISK_FACTOR", 0),
			CacheTTL:           envDuration("CRIVO_ANALYSIS_CACHE_TTL", 15*time.Minute),
		},
		Audit: Audit{
			BufferSize: envInt("CRIVO_AUDIT_BUFFER_SIZE", 256),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
