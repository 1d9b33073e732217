// internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Render() RenderConfig
	SetRenderConfig(rc RenderConfig)

	// Engine Setters
	SetEngineStyleConcurrency(int)
	SetEngineViewport(width, height float64)
}

// Config holds the entire application configuration. Fields stay exported
// for unmarshaling; callers go through the Interface's accessor methods.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	EngineCfg EngineConfig `mapstructure:"engine" yaml:"engine"`
	// RenderCfg gets its marching orders from CLI flags, not the config file.
	RenderCfg RenderConfig `mapstructure:"-" yaml:"-"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Engine() EngineConfig { return c.EngineCfg }
func (c *Config) Render() RenderConfig { return c.RenderCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetRenderConfig(rc RenderConfig) { c.RenderCfg = rc }

func (c *Config) SetEngineStyleConcurrency(n int) { c.EngineCfg.StyleConcurrency = n }

func (c *Config) SetEngineViewport(width, height float64) {
	c.EngineCfg.ViewportWidth = width
	c.EngineCfg.ViewportHeight = height
}

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

// EngineConfig configures document processing.
type EngineConfig struct {
	ViewportWidth    float64 `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight   float64 `mapstructure:"viewport_height" yaml:"viewport_height"`
	StyleConcurrency int     `mapstructure:"style_concurrency" yaml:"style_concurrency"`
	UserAgentStyles  bool    `mapstructure:"user_agent_styles" yaml:"user_agent_styles"`
	DocumentStyles   bool    `mapstructure:"document_styles" yaml:"document_styles"`
}

// RenderConfig holds settings populated from CLI flags for one render job.
type RenderConfig struct {
	Inputs      []string
	Stylesheets []string
	Output      string
	Format      string
	Concurrency int
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "titan")
	v.SetDefault("logger.log_file", "titan.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Engine --
	v.SetDefault("engine.viewport_width", 1280.0)
	v.SetDefault("engine.viewport_height", 720.0)
	v.SetDefault("engine.style_concurrency", 8)
	v.SetDefault("engine.user_agent_styles", true)
	v.SetDefault("engine.document_styles", true)
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
	if c.EngineCfg.ViewportWidth <= 0 || c.EngineCfg.ViewportHeight <= 0 {
		return fmt.Errorf("engine viewport dimensions must be positive")
	}
	if c.EngineCfg.StyleConcurrency <= 0 {
		return fmt.Errorf("engine.style_concurrency must be a positive integer")
	}
	return nil
}
