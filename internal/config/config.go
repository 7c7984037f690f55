package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
)

type Config struct {
	HTTPPort string `koanf:"http_port"`
	LogLevel string `koanf:"log_level"`

	PostgresAddress  string `koanf:"postgres_address"`
	PostgresPort     string `koanf:"postgres_port"`
	PostgresDB       string `koanf:"postgres_db"`
	PostgresUsername string `koanf:"postgres_username"`
	PostgresPassword string `koanf:"postgres_password"`

	StoreBackend  string `koanf:"store_backend"`
	RedisAddress  string `koanf:"redis_address"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	TransactionsTable   string        `koanf:"transactions_table"`
	ChunkSize           int           `koanf:"chunk_size"`
	DispatchConcurrency int           `koanf:"dispatch_concurrency"`
	OperatorWorkers     int           `koanf:"operator_workers"`
	MaterializeTimeout  time.Duration `koanf:"materialize_timeout"`
}

// In all cases the default behavior should be for the docker compose setup
var defaults = map[string]interface{}{
	"http_port":            "9446",
	"log_level":            "info",
	"postgres_address":     "localhost",
	"postgres_port":        "5433",
	"postgres_db":          "postgres",
	"postgres_username":    "postgres",
	"postgres_password":    "testpassword",
	"store_backend":        StoreBackendPostgres,
	"redis_address":        "localhost:6379",
	"redis_password":       "",
	"redis_db":             0,
	"transactions_table":   "transactions",
	"chunk_size":           25,
	"dispatch_concurrency": 1,
	"operator_workers":     4,
	"materialize_timeout":  "30s",
}

// ProcessEnvironmentVariables builds the Config from defaults, an optional YAML
// file named by CONFIG_FILE, and environment variables, in increasing priority.
func ProcessEnvironmentVariables() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); len(path) != 0 {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, known := defaults[key]; !known {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.StoreBackend != StoreBackendPostgres && cfg.StoreBackend != StoreBackendRedis {
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return &cfg, nil
}

// PostgresConnectionString returns the lib/pq DSN for the configured database.
func (c *Config) PostgresConnectionString() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}
