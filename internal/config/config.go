package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceHTTP  = "http"
	SourceMySQL = "mysql"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// CatalogConfig selects where the product list comes from and whether it is cached.
type CatalogConfig struct {
	Source    string        `yaml:"source"`
	URL       string        `yaml:"url"`
	MySQLDSN  string        `yaml:"mysql_dsn"`
	RedisAddr string        `yaml:"redis_addr"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source:   SourceHTTP,
			URL:      "https://dummyjson.com/products",
			CacheTTL: 10 * time.Minute,
		},
		Server: ServerConfig{
			HTTPAddr: ":8080",
			GRPCAddr: ":9090",
		},
		Log: LogConfig{
			Level: "info",
			File:  "storefront.log",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies environment
// overrides. A missing file or empty path yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Catalog.URL, "STOREFRONT_CATALOG_URL")
	setString(&c.Catalog.Source, "CATALOG_SOURCE")
	setString(&c.Catalog.MySQLDSN, "MYSQL_DSN")
	setString(&c.Catalog.RedisAddr, "REDIS_ADDR")
	setString(&c.Server.HTTPAddr, "HTTP_ADDR")
	setString(&c.Server.GRPCAddr, "GRPC_ADDR")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.File, "LOG_FILE")

	if v := os.Getenv("CATALOG_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: CATALOG_CACHE_TTL: %v", ErrInvalidConfig, err)
		}
		c.Catalog.CacheTTL = ttl
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceHTTP:
		if c.Catalog.URL == "" {
			return fmt.Errorf("%w: catalog url is empty", ErrInvalidConfig)
		}
	case SourceMySQL:
		if c.Catalog.MySQLDSN == "" {
			return fmt.Errorf("%w: mysql source requires MYSQL_DSN", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown catalog source %q", ErrInvalidConfig, c.Catalog.Source)
	}

	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("%w: negative cache ttl", ErrInvalidConfig)
	}
	// a zero ttl would keep the snapshot in redis forever
	if c.Catalog.RedisAddr != "" && c.Catalog.CacheTTL == 0 {
		return fmt.Errorf("%w: redis cache requires a positive cache ttl", ErrInvalidConfig)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
