package cli

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tapcolour/internal/sampler"
)

// Environment variables consulted by WithEnvConfig.
const (
	EnvLogLevel = "TAPCOLOUR_LOG_LEVEL"
	EnvTimeout  = "TAPCOLOUR_TIMEOUT"
	EnvWindow   = "TAPCOLOUR_WINDOW"
	EnvStrategy = "TAPCOLOUR_STRATEGY"
	EnvCacheDir = "TAPCOLOUR_CACHE_DIR"
)

// Config holds settings shared by every command. Flags override it.
type Config struct {
	LogLevel string
	Verbose  bool
	Quiet    bool

	Timeout  time.Duration
	Window   int
	Strategy string

	// Cache downloads URL frames to CacheDir before sampling.
	Cache    bool
	CacheDir string
}

// ConfigBuilder builds a Config.
type ConfigBuilder struct {
	useEnv bool
	lookup func(string) (string, bool)
}

// NewConfigBuilder creates a builder with default settings.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{lookup: os.LookupEnv}
}

// WithEnvConfig loads configuration from environment variables.
func (b *ConfigBuilder) WithEnvConfig() *ConfigBuilder {
	b.useEnv = true
	return b
}

// Build returns the configuration. Unparseable environment values are
// ignored in favour of the defaults.
func (b *ConfigBuilder) Build() *Config {
	cfg := &Config{
		LogLevel: "warn",
		Timeout:  10 * time.Second,
		Window:   3,
		Strategy: string(sampler.StrategyDecode),
	}

	if !b.useEnv {
		return cfg
	}

	if v, ok := b.lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := b.lookup(EnvTimeout); ok {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.Timeout = d
		}
	}
	if v, ok := b.lookup(EnvWindow); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Window = n
		}
	}
	if v, ok := b.lookup(EnvStrategy); ok && v != "" {
		cfg.Strategy = strings.ToLower(v)
	}
	if v, ok := b.lookup(EnvCacheDir); ok && v != "" {
		cfg.CacheDir = v
	}

	return cfg
}

// Level resolves the effective log level. --verbose and --quiet win over
// --log-level.
func (c *Config) Level() hclog.Level {
	switch {
	case c.Verbose:
		return hclog.Debug
	case c.Quiet:
		return hclog.Error
	}
	if level := hclog.LevelFromString(c.LogLevel); level != hclog.NoLevel {
		return level
	}
	return hclog.Warn
}

// Logger creates the root logger writing to out.
func (c *Config) Logger(out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "tapcolour",
		Output: out,
		Level:  c.Level(),
	})
}
