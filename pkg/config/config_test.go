package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithNoPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "change-events", cfg.Kafka.Topic)
	assert.Equal(t, "process", cfg.Locking.Scope)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
kafka:
  brokers: ["broker-1:9092"]
  topic: custom-topic
database:
  dialect: mysql
  dsn: "user:pass@tcp(db:3306)/mart"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "custom-topic", cfg.Kafka.Topic)
	assert.Equal(t, "mysql", cfg.Database.Dialect)
}

func TestLockConfigForRejectsUnsupportedScope(t *testing.T) {
	cfg := Default()
	cfg.Locking.Scope = "cluster"
	_, err := cfg.LockConfigFor()
	assert.Error(t, err)
}

func TestLockConfigForDefaultsToProcessScope(t *testing.T) {
	cfg := Default()
	lc, err := cfg.LockConfigFor()
	require.NoError(t, err)
	assert.Equal(t, lock.Process, lc.Scope)
}

func TestDialectRejectsUnsupportedValue(t *testing.T) {
	cfg := Default()
	cfg.Database.Dialect = "oracle"
	_, err := cfg.Dialect()
	assert.Error(t, err)
}

func TestEnvOverridesBrokersAndDSN(t *testing.T) {
	t.Setenv("DATAMART_KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("DATAMART_DATABASE_DSN", "postgres://example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "postgres://example", cfg.Database.DSN)
}
