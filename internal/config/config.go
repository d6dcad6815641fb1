// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/boxflow/pkg/layout"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Output() OutputConfig

	// Output Setters
	SetOutputFormat(string)
	SetOutputConcurrency(int)
}

// Config is the root configuration, decoded from viper.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	EngineCfg EngineConfig `mapstructure:"engine" yaml:"engine"`
	OutputCfg OutputConfig `mapstructure:"output" yaml:"output"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Engine() EngineConfig { return c.EngineCfg }
func (c *Config) Output() OutputConfig { return c.OutputCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetOutputFormat(f string)   { c.OutputCfg.Format = f }
func (c *Config) SetOutputConcurrency(n int) { c.OutputCfg.Concurrency = n }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// Text measurement modes for scenario leaves.
const (
	TextModeTerminal = "terminal"
	TextModeFont     = "font"
)

// EngineConfig configures the layout engine and leaf measurement.
type EngineConfig struct {
	MaxDepth     int     `mapstructure:"max_depth" yaml:"max_depth"`
	CacheSlots   int     `mapstructure:"cache_slots" yaml:"cache_slots"`
	Rounding     bool    `mapstructure:"rounding" yaml:"rounding"`
	DisableCache bool    `mapstructure:"disable_cache" yaml:"disable_cache"`
	TextMode     string  `mapstructure:"text_mode" yaml:"text_mode"`
	FontSize     float64 `mapstructure:"font_size" yaml:"font_size"`
}

// Options maps the engine settings to tree options.
func (e EngineConfig) Options() []layout.Option {
	return []layout.Option{
		layout.WithMaxDepth(e.MaxDepth),
		layout.WithCacheSlots(e.CacheSlots),
		layout.WithRounding(e.Rounding),
		layout.WithCacheDisabled(e.DisableCache),
	}
}

// Output formats.
const (
	FormatJSON = "json"
	FormatTree = "tree"
)

// OutputConfig controls how computed layouts are reported.
type OutputConfig struct {
	Format      string `mapstructure:"format" yaml:"format"`
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency"`
}

// NewDefaultConfig creates a new configuration with all default values set.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "boxflow")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Engine --
	v.SetDefault("engine.max_depth", layout.DefaultMaxDepth)
	v.SetDefault("engine.cache_slots", 8)
	v.SetDefault("engine.rounding", true)
	v.SetDefault("engine.disable_cache", false)
	v.SetDefault("engine.text_mode", TextModeTerminal)
	v.SetDefault("engine.font_size", 16.0)

	// -- Output --
	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("output.concurrency", 4)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.EngineCfg.Validate(); err != nil {
		return fmt.Errorf("engine configuration invalid: %w", err)
	}
	if err := c.OutputCfg.Validate(); err != nil {
		return fmt.Errorf("output configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the engine settings.
func (e *EngineConfig) Validate() error {
	if e.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be a positive integer")
	}
	if e.CacheSlots <= 0 {
		return fmt.Errorf("cache_slots must be a positive integer")
	}
	switch strings.ToLower(e.TextMode) {
	case TextModeTerminal:
	case TextModeFont:
		if e.FontSize <= 0 {
			return fmt.Errorf("font_size must be positive when text_mode is %q", TextModeFont)
		}
	default:
		return fmt.Errorf("text_mode must be %q or %q, got %q", TextModeTerminal, TextModeFont, e.TextMode)
	}
	return nil
}

// Validate checks the output settings.
func (o *OutputConfig) Validate() error {
	switch strings.ToLower(o.Format) {
	case FormatJSON, FormatTree:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatJSON, FormatTree, o.Format)
	}
	if o.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be a positive integer")
	}
	return nil
}
