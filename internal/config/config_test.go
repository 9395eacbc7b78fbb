// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "figport", cfg.Logger().ServiceName)
	assert.True(t, cfg.Browser().Headless)
	assert.Equal(t, 2, cfg.Browser().Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Browser().NavigationTimeout)
	assert.Equal(t, 800*time.Millisecond, cfg.Browser().SettleDelay)
	assert.Equal(t, 1440, cfg.Convert().PageWidth)
	assert.Equal(t, 900, cfg.Convert().PageHeight)
	assert.Equal(t, "Inter", cfg.Convert().FallbackFontFamily)
	assert.Equal(t, "Regular", cfg.Convert().FallbackFontStyle)
	assert.Equal(t, "anthropic", cfg.LLM().Provider)
	assert.Equal(t, 1.0, cfg.Preview().Scale)

	require.NoError(t, cfg.Validate())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Browser Concurrency", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.SetBrowserConcurrency(0)
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "browser.concurrency must be a positive integer")
	})

	t.Run("Page Size", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.SetConvertPageSize(0, 900)
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page_width and page_height must be positive")
	})

	t.Run("Fallback Font", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.ConvertCfg.FallbackFontFamily = "  "
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fallback_font_family is required")
	})

	t.Run("Unknown Provider", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.SetLLMProvider("carrier-pigeon")
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported provider")
	})

	t.Run("Gemini Provider", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.SetLLMProvider("gemini")
		cfg.SetLLMModel("gemini-2.5-pro")
		assert.NoError(t, cfg.Validate())
	})
}

// -- Viper Integration Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("YAML Overrides", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		yamlConfig := []byte(`
browser:
  concurrency: 6
  settle_delay: 2s
  args: ["--hide-scrollbars"]
convert:
  page_width: 390
  page_height: 844
  fallback_font_family: Roboto
llm:
  provider: gemini
  api_key: from-file
`)
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, 6, cfg.Browser().Concurrency)
		assert.Equal(t, 2*time.Second, cfg.Browser().SettleDelay)
		assert.Equal(t, []string{"--hide-scrollbars"}, cfg.Browser().Args)
		assert.Equal(t, 390, cfg.Convert().PageWidth)
		assert.Equal(t, 844, cfg.Convert().PageHeight)
		assert.Equal(t, "Roboto", cfg.Convert().FallbackFontFamily)
		assert.Equal(t, "Regular", cfg.Convert().FallbackFontStyle, "defaults survive partial overrides")
		assert.Equal(t, "gemini", cfg.LLM().Provider)
		assert.Equal(t, "from-file", cfg.LLM().APIKey)
	})

	t.Run("Provider API Key From Environment", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-test")
		v := viper.New()
		SetDefaults(v)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "sk-test", cfg.LLM().APIKey)
	})

	t.Run("Invalid Config Rejected", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("browser.concurrency", -1)

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}
