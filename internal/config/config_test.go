// internal/config/config_test.go
package config

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "titan", cfg.Logger().ServiceName)
	assert.Equal(t, 1280.0, cfg.Engine().ViewportWidth)
	assert.Equal(t, 720.0, cfg.Engine().ViewportHeight)
	assert.Equal(t, 8, cfg.Engine().StyleConcurrency)
	assert.True(t, cfg.Engine().UserAgentStyles)
	assert.True(t, cfg.Engine().DocumentStyles)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Valid Defaults", func(t *testing.T) {
		cfg := NewDefaultConfig()
		assert.NoError(t, cfg.Validate(), "default config should validate")
	})

	t.Run("Invalid Viewport", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.SetEngineViewport(0, 720)
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "viewport dimensions must be positive")
	})

	t.Run("Invalid Style Concurrency", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.SetEngineStyleConcurrency(0)
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "style_concurrency must be a positive integer")
	})
}

// -- Viper Integration Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Overrides From YAML", func(t *testing.T) {
		yamlConfig := []byte(`
logger:
  level: debug
  format: json
engine:
  viewport_width: 800
  viewport_height: 600
  style_concurrency: 2
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logger().Level)
		assert.Equal(t, "json", cfg.Logger().Format)
		assert.Equal(t, 800.0, cfg.Engine().ViewportWidth)
		assert.Equal(t, 600.0, cfg.Engine().ViewportHeight)
		assert.Equal(t, 2, cfg.Engine().StyleConcurrency)
		// Untouched keys keep their defaults.
		assert.Equal(t, "titan", cfg.Logger().ServiceName)
	})

	t.Run("Rejects Invalid Values", func(t *testing.T) {
		yamlConfig := []byte(`
engine:
  style_concurrency: -3
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		_, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestSetRenderConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	rc := RenderConfig{
		Inputs:      []string{"page.html"},
		Output:      "out.json",
		Format:      "json",
		Concurrency: 4,
	}
	cfg.SetRenderConfig(rc)
	assert.Equal(t, rc, cfg.Render())
}
