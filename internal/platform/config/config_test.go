package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "legacy-hmac", cfg.CredentialScheme)
	assert.Empty(t, cfg.Admin.Email, "no admin is seeded unless configured")
	assert.Empty(t, cfg.Admin.Password)
}

func TestFromEnvAdmin(t *testing.T) {
	t.Setenv("RESGATE_ADMIN_EMAIL", "admin@resgate.org")
	t.Setenv("RESGATE_ADMIN_PASSWORD", "senha-do-admin")

	cfg := FromEnv()

	assert.Equal(t, "Administrator", cfg.Admin.Name)
	assert.Equal(t, "admin@resgate.org", cfg.Admin.Email)
	assert.Equal(t, "senha-do-admin", cfg.Admin.Password)

	t.Setenv("RESGATE_ADMIN_NAME", "Plantonista")
	assert.Equal(t, "Plantonista", FromEnv().Admin.Name)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RESGATE_ADDR", ":9090")
	t.Setenv("RESGATE_SESSION_TTL", "30m")
	t.Setenv("RESGATE_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}
