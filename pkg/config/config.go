package config

import (
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperr "github.com/corsserve/corsserve/pkg/errors"
)

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "CORSSERVE"

// Config holds server configuration loaded from flags, environment variables or a config file.
type Config struct {
	AppEnv string `mapstructure:"app_env" validate:"required,oneof=development test production"`

	Host            string        `mapstructure:"host" validate:"required,hostname_rfc1123|ip"`
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	Root            string        `mapstructure:"root" validate:"required,dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`

	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json console"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" validate:"gte=1"`
	Compress       bool    `mapstructure:"compress"`
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// URL returns the base URL the server is reachable at.
func (c *Config) URL() string {
	return "http://" + c.Addr() + "/"
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"host":       "host",
	"port":       "port",
	"root":       "root",
	"log-level":  "log_level",
	"log-format": "log_format",
	"rate-limit": "rate_limit_rps",
	"compress":   "compress",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("host", "localhost", "interface to bind")
	fs.IntP("port", "p", 8000, "port to listen on (0 picks a free port)")
	fs.StringP("root", "d", ".", "document root to serve")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", "console", "log format: json or console")
	fs.Float64("rate-limit", 0, "requests per second allowed per client IP (0 disables)")
	fs.Bool("compress", false, "gzip/deflate responses when the client accepts it")
}

// Load initializes configuration using Viper. It loads from .env if present,
// applies defaults, binds env vars and flags, and validates the result.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// Load .env if present (non-fatal)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("corsserve")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("app_env", "development")
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8000)
	v.SetDefault("root", ".")
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("compress", false)

	// Optional config file; a present but unreadable one is an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, apperr.Wrap(err, apperr.CodeInvalid, "read config file")
		}
	}

	keys := []string{
		"app_env",
		"host",
		"port",
		"root",
		"shutdown_timeout",
		"log_level",
		"log_format",
		"rate_limit_rps",
		"rate_limit_burst",
		"compress",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, apperr.Wrap(err, apperr.CodeInvalid, "bind flag "+name)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInvalid, "config unmarshal error")
	}

	if err := validate.Struct(&c); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInvalid, "invalid configuration")
	}

	return &c, nil
}
