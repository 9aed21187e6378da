// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// SourceHTTP selects the remote gateway as form source. Any value of the form
// "file:<path>" selects a local definition instead.
const SourceHTTP = "http"

type Config struct {
	Env         string
	APIEndpoint string
	FormSource  string

	HTTP  HTTPConfig
	Store StoreConfig
	Redis RedisConfig
	Log   LogConfig
}

type HTTPConfig struct {
	Addr           string
	ShutdownGrace  time.Duration
	RequestTimeout time.Duration
}

type StoreConfig struct {
	Driver string
	Dir    string
}

type RedisConfig struct {
	Host       string
	Port       int
	Password   string
	DB         int
	SessionTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// FormFile returns the path of a file form source.
func (c *Config) FormFile() (string, bool) {
	path, ok := strings.CutPrefix(c.FormSource, "file:")
	if !ok || path == "" {
		return "", false
	}
	return path, true
}

// Validate checks the combinations Load cannot default.
func (c *Config) Validate() error {
	var errs []error
	// Login always goes through the gateway, even with a file form source.
	if c.APIEndpoint == "" {
		errs = append(errs, errors.New("config: API_ENDPOINT is required"))
	}
	if _, isFile := c.FormFile(); !isFile && c.FormSource != SourceHTTP {
		errs = append(errs, fmt.Errorf("config: FORM_SOURCE %q must be %q or file:<path>", c.FormSource, SourceHTTP))
	}
	switch c.Store.Driver {
	case StoreMemory, StoreRedis:
	case StoreFile:
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("config: STORE_DIR is required for the file store"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver))
	}
	return errors.Join(errs...)
}

// Load reads configuration. defaultStore is the driver used when STORE_DRIVER
// is unset; the web and terminal front ends differ here.
func Load(defaultStore string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	if defaultStore != "" {
		v.SetDefault("STORE_DRIVER", defaultStore)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:         v.GetString("ENV"),
		APIEndpoint: strings.TrimRight(v.GetString("API_ENDPOINT"), "/"),
		FormSource:  v.GetString("FORM_SOURCE"),
	}

	cfg.HTTP = HTTPConfig{
		Addr:           v.GetString("ADDR"),
		ShutdownGrace:  parseDuration(v.GetString("SHUTDOWN_GRACE"), 5*time.Second),
		RequestTimeout: parseDuration(v.GetString("REQUEST_TIMEOUT"), 0),
	}

	cfg.Store = StoreConfig{
		Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		Dir:    v.GetString("STORE_DIR"),
	}

	cfg.Redis = RedisConfig{
		Host:       v.GetString("REDIS_HOST"),
		Port:       v.GetInt("REDIS_PORT"),
		Password:   v.GetString("REDIS_PASSWORD"),
		DB:         v.GetInt("REDIS_DB"),
		SessionTTL: parseDuration(v.GetString("REDIS_SESSION_TTL"), 720*time.Hour),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("API_ENDPOINT", "")
	v.SetDefault("FORM_SOURCE", SourceHTTP)

	v.SetDefault("ADDR", ":8080")
	v.SetDefault("SHUTDOWN_GRACE", "5s")
	v.SetDefault("REQUEST_TIMEOUT", "0s")

	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("STORE_DIR", "")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_SESSION_TTL", "720h")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// viper reports a missing explicit config file as a plain fs error rather
// than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
