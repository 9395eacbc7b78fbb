// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Convert() ConvertConfig
	LLM() LLMConfig
	Preview() PreviewConfig

	// Browser Setters
	SetBrowserHeadless(bool)
	SetBrowserConcurrency(int)

	// Convert Setters
	SetConvertPageSize(width, height int)

	// LLM Setters
	SetLLMProvider(string)
	SetLLMModel(string)
}

// Config holds the entire application configuration.
// Sections are exported so viper can unmarshal into them; callers go through
// the Interface getters.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	BrowserCfg BrowserConfig `mapstructure:"browser" yaml:"browser"`
	ConvertCfg ConvertConfig `mapstructure:"convert" yaml:"convert"`
	LLMCfg     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	PreviewCfg PreviewConfig `mapstructure:"preview" yaml:"preview"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig { return c.BrowserCfg }
func (c *Config) Convert() ConvertConfig { return c.ConvertCfg }
func (c *Config) LLM() LLMConfig         { return c.LLMCfg }
func (c *Config) Preview() PreviewConfig { return c.PreviewCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetBrowserHeadless(b bool)   { c.BrowserCfg.Headless = b }
func (c *Config) SetBrowserConcurrency(n int) { c.BrowserCfg.Concurrency = n }
func (c *Config) SetLLMProvider(p string)     { c.LLMCfg.Provider = p }
func (c *Config) SetLLMModel(m string)        { c.LLMCfg.Model = m }

func (c *Config) SetConvertPageSize(w, h int) {
	c.ConvertCfg.PageWidth = w
	c.ConvertCfg.PageHeight = h
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

// BrowserConfig holds settings for the headless browser that renders pages
// before they are converted.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	DisableGPU        bool          `mapstructure:"disable_gpu" yaml:"disable_gpu"`
	ExecPath          string        `mapstructure:"exec_path" yaml:"exec_path"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	Concurrency       int           `mapstructure:"concurrency" yaml:"concurrency"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// SettleDelay is how long to wait after the load event so webfonts and
	// late stylesheets land before geometry is read.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
}

// ConvertConfig tunes the DOM to design-script compiler.
type ConvertConfig struct {
	PageWidth          int    `mapstructure:"page_width" yaml:"page_width"`
	PageHeight         int    `mapstructure:"page_height" yaml:"page_height"`
	FallbackFontFamily string `mapstructure:"fallback_font_family" yaml:"fallback_font_family"`
	FallbackFontStyle  string `mapstructure:"fallback_font_style" yaml:"fallback_font_style"`
}

// LLMConfig configures the hosted model used by the generate command.
type LLMConfig struct {
	Provider  string        `mapstructure:"provider" yaml:"provider"`
	Model     string        `mapstructure:"model" yaml:"model"`
	APIKey    string        `mapstructure:"api_key" yaml:"-"`
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	MaxTokens int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// PreviewConfig controls the SVG preview renderer.
type PreviewConfig struct {
	Scale float64 `mapstructure:"scale" yaml:"scale"`
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
	v.SetDefault("logger.service_name", "figport")
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

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.disable_gpu", true)
	v.SetDefault("browser.concurrency", 2)
	v.SetDefault("browser.navigation_timeout", "30s")
	v.SetDefault("browser.settle_delay", "800ms")

	// -- Convert --
	v.SetDefault("convert.page_width", 1440)
	v.SetDefault("convert.page_height", 900)
	v.SetDefault("convert.fallback_font_family", "Inter")
	v.SetDefault("convert.fallback_font_style", "Regular")

	// -- LLM --
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.max_tokens", 16000)
	v.SetDefault("llm.timeout", "5m")

	// -- Preview --
	v.SetDefault("preview.scale", 1.0)
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// API keys are usually provided through the provider's own variable.
	_ = v.BindEnv("llm.api_key", "FIGPORT_LLM_API_KEY")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.LLMCfg.APIKey == "" {
		switch strings.ToLower(cfg.LLMCfg.Provider) {
		case "anthropic":
			cfg.LLMCfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "gemini":
			cfg.LLMCfg.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.BrowserCfg.Concurrency <= 0 {
		return fmt.Errorf("browser.concurrency must be a positive integer")
	}
	if c.BrowserCfg.SettleDelay < 0 {
		return fmt.Errorf("browser.settle_delay must not be negative")
	}
	if err := c.ConvertCfg.Validate(); err != nil {
		return fmt.Errorf("convert configuration invalid: %w", err)
	}
	if err := c.LLMCfg.Validate(); err != nil {
		return fmt.Errorf("llm configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the Convert configuration.
func (c *ConvertConfig) Validate() error {
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("page_width and page_height must be positive")
	}
	if strings.TrimSpace(c.FallbackFontFamily) == "" {
		return fmt.Errorf("fallback_font_family is required")
	}
	if strings.TrimSpace(c.FallbackFontStyle) == "" {
		return fmt.Errorf("fallback_font_style is required")
	}
	return nil
}

// Validate checks the LLM configuration. The API key is only required when
// a generator is actually constructed, so it is not checked here.
func (l *LLMConfig) Validate() error {
	switch strings.ToLower(l.Provider) {
	case "anthropic", "gemini":
	default:
		return fmt.Errorf("unsupported provider %q (want anthropic or gemini)", l.Provider)
	}
	if l.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be a positive integer")
	}
	return nil
}
