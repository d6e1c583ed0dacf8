package config

import (
	"fmt"
	"os"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lock"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/log"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Config is the single configuration document for the replicator
// process: the Kafka consumer, the relational data mart connection, the
// locking service, and the listen addresses for metrics/health.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Database DatabaseConfig `yaml:"database"`
	Locking  LockingConfig  `yaml:"locking"`
	Server   ServerConfig   `yaml:"server"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	JSON   bool   `yaml:"json"`
}

// KafkaConfig addresses the change-events topic.
type KafkaConfig struct {
	Brokers   []string `yaml:"brokers"`
	Topic     string   `yaml:"topic"`
	GroupID   string   `yaml:"group_id"`
	DataDir   string   `yaml:"data_dir"`
	QueueSize int      `yaml:"queue_size"`
}

// DatabaseConfig addresses the relational data mart.
type DatabaseConfig struct {
	Dialect string `yaml:"dialect"` // "postgres" or "mysql"
	DSN     string `yaml:"dsn"`
}

// LockingConfig carries the options a lock.Service recognizes.
type LockingConfig struct {
	Scope string `yaml:"scope"` // only "process" is implemented
}

// ServerConfig addresses the metrics/health HTTP endpoint.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the zero-configuration defaults: process-scope
// locking, console logging at info level, and a metrics/health listener
// on localhost.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Kafka: KafkaConfig{
			Topic:     "change-events",
			GroupID:   "data-mart-replicator",
			DataDir:   "./data",
			QueueSize: 64,
		},
		Database: DatabaseConfig{Dialect: "postgres"},
		Locking:  LockingConfig{Scope: "process"},
		Server:   ServerConfig{ListenAddr: "127.0.0.1:9090"},
	}
}

// Load reads a YAML config file at path, falling back to Default for any
// field left unset. Environment variables DATAMART_KAFKA_BROKERS
// (comma-separated) and DATAMART_DATABASE_DSN override the file when set,
// for the common case of injecting secrets at deploy time rather than
// writing them to disk.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if brokers := os.Getenv("DATAMART_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitCommaList(brokers)
	}
	if dsn := os.Getenv("DATAMART_DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	return cfg, nil
}

// LogConfigFor translates LogConfig into the ambient logger's Config.
func (c *Config) LogConfigFor() log.Config {
	return log.Config{Level: log.Level(c.Log.Level), JSONOutput: c.Log.JSON}
}

// LockConfigFor translates LockingConfig into a lock.Config. Only the
// process scope is implemented today; any other configured value is
// rejected so misconfiguration fails fast at startup rather than
// silently falling back.
func (c *Config) LockConfigFor() (*lock.Config, error) {
	switch c.Locking.Scope {
	case "", "process":
		return &lock.Config{Scope: lock.Process}, nil
	default:
		return nil, fmt.Errorf("config: unsupported locking scope %q", c.Locking.Scope)
	}
}

// Dialect translates DatabaseConfig.Dialect into a schema.Dialect.
func (c *Config) Dialect() (schema.Dialect, error) {
	switch c.Database.Dialect {
	case "postgres":
		return schema.DialectPostgres, nil
	case "mysql":
		return schema.DialectMySQL, nil
	default:
		return "", fmt.Errorf("config: unsupported database dialect %q", c.Database.Dialect)
	}
}

func splitCommaList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
