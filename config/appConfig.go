package config

import (
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultTimeout   = 10 * time.Second
	DefaultPageSize  = 12
	DefaultRateLimit = 5
)

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type CatalogConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	PageSize  int             `yaml:"page_size"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// QueryLogConfig выбирает хранилище журнала запросов. Пустой Driver отключает журнал.
type QueryLogConfig struct {
	Driver     string `yaml:"driver"`
	SqlitePath string `yaml:"sqlite_path"`
}

type AppConfig struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	QueryLog QueryLogConfig `yaml:"query_log"`
	Postgres DatabaseConfig `yaml:"postgres"`
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		Catalog: CatalogConfig{
			BaseURL:  DefaultBaseURL,
			Timeout:  DefaultTimeout,
			PageSize: DefaultPageSize,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: DefaultRateLimit,
				Burst:             DefaultRateLimit,
			},
		},
		QueryLog: QueryLogConfig{SqlitePath: "catalog_queries.db"},
		Postgres: *GetConfig(),
	}
}

// LoadConfig читает yaml поверх значений по умолчанию, затем применяет окружение.
// Пустой filename означает только значения по умолчанию и окружение.
func LoadConfig(filename string) (*AppConfig, error) {
	config := DefaultConfig()
	if filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, errors.Wrap(err, "open config")
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, errors.Wrap(err, "decode config")
		}
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadDotEnv подгружает переменные из .env файлов, если они есть.
func LoadDotEnv(filenames ...string) error {
	var existing []string
	for _, name := range filenames {
		if _, err := os.Stat(name); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (c *AppConfig) applyEnv() {
	c.Catalog.BaseURL = getEnv("CATALOG_BASE_URL", c.Catalog.BaseURL)
	c.QueryLog.Driver = getEnv("CATALOG_DB_DRIVER", c.QueryLog.Driver)
	c.QueryLog.SqlitePath = getEnv("CATALOG_SQLITE_PATH", c.QueryLog.SqlitePath)
	c.Metrics.Addr = getEnv("CATALOG_METRICS_ADDR", c.Metrics.Addr)

	c.Postgres.Host = getEnv("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.Port = getEnv("POSTGRES_PORT", c.Postgres.Port)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.DBName = getEnv("POSTGRES_NAME", c.Postgres.DBName)
}

func (c *AppConfig) Validate() error {
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url is required")
	}
	if c.Catalog.PageSize <= 0 {
		return errors.Errorf("catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.Timeout <= 0 {
		c.Catalog.Timeout = DefaultTimeout
	}
	if c.Catalog.RateLimit.RequestsPerSecond < 0 {
		return errors.New("catalog.rate_limit.requests_per_second must not be negative")
	}
	if c.Catalog.RateLimit.Burst <= 0 {
		c.Catalog.RateLimit.Burst = 1
	}
	switch c.QueryLog.Driver {
	case "", DriverPostgres, DriverSqlite:
	default:
		return errors.Errorf("unsupported query_log.driver %q", c.QueryLog.Driver)
	}
	return nil
}
