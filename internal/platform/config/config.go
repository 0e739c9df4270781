// Package config loads process configuration from the environment so main
// stays lean. Every value has a development default; production deployments
// override them.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the server process needs to wire itself.
type Config struct {
	Addr string

	// PostgresURL enables the Postgres-backed stores when non-empty;
	// otherwise the in-memory stores are used (development mode).
	PostgresURL string

	// RedisURL enables the Redis change feed and token revocation list when
	// non-empty.
	Redis RedisConfig

	// KafkaBrokers enables the Kafka audit publisher when non-empty.
	KafkaBrokers []string
	AuditTopic   string

	// Object storage for organization registration documents.
	Storage StorageConfig

	// JWTSigningKey signs session tokens.
	JWTSigningKey string
	SessionTTL    time.Duration

	// CredentialScheme selects the password hashing scheme: "legacy-hmac"
	// (compatible with records migrated from the original deployment) or
	// "bcrypt". The legacy scheme uses a fixed application key and is a
	// documented weakness kept only for data compatibility.
	CredentialScheme string
	LegacyHMACKey    string

	// Admin is seeded at startup when both email and password are set.
	// Registration is closed to admins, so this is the only way one
	// comes into existence.
	Admin AdminConfig
}

// AdminConfig describes the provisioned administrator account.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// RedisConfig carries connection tuning for the Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig points at the S3-compatible bucket holding registration
// documents.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:             envOr("RESGATE_ADDR", ":8080"),
		PostgresURL:      os.Getenv("RESGATE_POSTGRES_URL"),
		AuditTopic:       envOr("RESGATE_AUDIT_TOPIC", "resgate.audit"),
		JWTSigningKey:    envOr("RESGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:       8 * time.Hour,
		CredentialScheme: envOr("RESGATE_CREDENTIAL_SCHEME", "legacy-hmac"),
		LegacyHMACKey:    envOr("RESGATE_LEGACY_HMAC_KEY", "sos-hasbik-2024"),
	}

	if brokers := os.Getenv("RESGATE_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	cfg.Redis = RedisConfig{
		URL:          os.Getenv("RESGATE_REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	cfg.Storage = StorageConfig{
		Endpoint:  os.Getenv("RESGATE_STORAGE_ENDPOINT"),
		AccessKey: os.Getenv("RESGATE_STORAGE_ACCESS_KEY"),
		SecretKey: os.Getenv("RESGATE_STORAGE_SECRET_KEY"),
		Bucket:    envOr("RESGATE_STORAGE_BUCKET", "documents"),
		UseSSL:    os.Getenv("RESGATE_STORAGE_USE_SSL") == "true",
	}

	cfg.Admin = AdminConfig{
		Name:     envOr("RESGATE_ADMIN_NAME", "Administrator"),
		Email:    os.Getenv("RESGATE_ADMIN_EMAIL"),
		Password: os.Getenv("RESGATE_ADMIN_PASSWORD"),
	}

	if ttl := os.Getenv("RESGATE_SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.SessionTTL = d
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
