package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8083

[database]
host = "localhost"
user = "postgres"
password = "postgres"
dbname = "appointments"

[logs]
level = "debug"

[kafka]
topic = "appointment-events"

[booking]
min_booking_notice_minutes = 30
auto_confirm = true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8083, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 50, cfg.Outbox.BatchSize)
	assert.Equal(t, 30, cfg.Booking.MinBookingNoticeMinutes)
	assert.True(t, cfg.Booking.AutoConfirm)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=appointments sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_InvalidEnvPort(t *testing.T) {
	t.Setenv("DB_PORT", "five")

	_, err := Load(writeConfig(t, sampleConfig))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{HTTPPort: 8080},
		Database: DatabaseConfig{Host: "db", DBName: "appointments"},
	}
	require.NoError(t, cfg.Validate())

	cfg.RateLimit.Enabled = true
	assert.Error(t, cfg.Validate(), "rate limit without redis")

	cfg.Redis.Addr = "redis:6379"
	require.NoError(t, cfg.Validate())

	cfg.Kafka.Brokers = []string{"kafka:9092"}
	assert.Error(t, cfg.Validate(), "brokers without topic")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
