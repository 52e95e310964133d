// Package server provides configuration helpers that define runtime defaults,
// validation, and rate-limiting parameters for the relaychat service.
package server

import (
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/Tyrowin/relaychat/internal/chat"
)

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 12345
	defaultMaxLineLength   = 4096
	defaultRateLimitBurst  = 20
	defaultRefillInterval  = time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultLogLevel        = "INFO"
)

// RateLimitConfig defines the parameters for per-session line rate limiting.
// A zero Burst turns limiting off.
type RateLimitConfig struct {
	Burst          int           `env:"BURST"           envDefault:"20" validate:"gte=0"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"1s" validate:"gte=0"`
}

// Config holds the server configuration settings including security controls.
type Config struct {
	Host            string          `env:"CHAT_HOST"             envDefault:"0.0.0.0"`
	Port            int             `env:"CHAT_PORT"             envDefault:"12345"                 validate:"gte=0,lte=65535"`
	HTTPAddr        string          `env:"CHAT_HTTP_ADDR"                                           validate:"omitempty,hostname_port"`
	AllowedOrigins  []string        `env:"CHAT_ALLOWED_ORIGINS"  envDefault:"http://localhost:8080" envSeparator:","`
	MaxLineLength   int             `env:"CHAT_MAX_LINE_LENGTH"  envDefault:"4096"                  validate:"gte=0"`
	OutboxSize      int             `env:"CHAT_OUTBOX_SIZE"      envDefault:"256"                   validate:"gte=0"`
	DrainTimeout    time.Duration   `env:"CHAT_DRAIN_TIMEOUT"    envDefault:"2s"                    validate:"gte=0"`
	RateLimit       RateLimitConfig `envPrefix:"CHAT_RATE_LIMIT_"`
	ShutdownTimeout time.Duration   `env:"CHAT_SHUTDOWN_TIMEOUT" envDefault:"5s"                    validate:"gte=0"`
	LogLevel        string          `env:"CHAT_LOG_LEVEL"        envDefault:"INFO"                  validate:"oneof=DEBUG INFO WARN ERROR"`
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() Config {
	return Config{
		Host:           defaultHost,
		Port:           defaultPort,
		AllowedOrigins: []string{"http://localhost:8080"},
		MaxLineLength:  defaultMaxLineLength,
		OutboxSize:     chat.DefaultOutboxSize,
		DrainTimeout:   chat.DefaultDrainTimeout,
		RateLimit: RateLimitConfig{
			Burst:          defaultRateLimitBurst,
			RefillInterval: defaultRefillInterval,
		},
		ShutdownTimeout: defaultShutdownTimeout,
		LogLevel:        defaultLogLevel,
	}
}

// LoadConfig reads the environment, then flags, then the optional positional
// arguments "[port]" or "[host port]". The result is validated and sanitized.
func LoadConfig(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Host, "host", cfg.Host, "chat listen host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "chat listen port")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address for /ws and health (empty disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (DEBUG, INFO, WARN, ERROR)")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	if err := applyPositional(&cfg, fs.Args()); err != nil {
		return Config{}, err
	}

	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return sanitizeConfig(cfg), nil
}

func applyPositional(cfg *Config, args []string) error {
	switch len(args) {
	case 0:
		return nil
	case 1:
		return parsePort(cfg, args[0])
	case 2:
		cfg.Host = args[0]
		return parsePort(cfg, args[1])
	default:
		return fmt.Errorf("unexpected arguments %q: want [port] or [host port]", args)
	}
}

func parsePort(cfg *Config, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", value, err)
	}
	cfg.Port = port
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func sanitizeConfig(cfg Config) Config {
	if cfg.MaxLineLength <= 0 {
		cfg.MaxLineLength = defaultMaxLineLength
	}

	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = chat.DefaultOutboxSize
	}

	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = chat.DefaultDrainTimeout
	}

	if cfg.RateLimit.RefillInterval <= 0 {
		cfg.RateLimit.RefillInterval = defaultRefillInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	cfg.AllowedOrigins = append([]string(nil), cfg.AllowedOrigins...)
	return cfg
}

// Address is the TCP listen address.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SessionConfig is the per-session part of the configuration.
func (c Config) SessionConfig() chat.SessionConfig {
	return chat.SessionConfig{
		OutboxSize:   c.OutboxSize,
		DrainTimeout: c.DrainTimeout,
		RateLimit: chat.RateLimit{
			Burst:          c.RateLimit.Burst,
			RefillInterval: c.RateLimit.RefillInterval,
		},
	}
}
