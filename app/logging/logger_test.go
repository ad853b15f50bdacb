package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/storefront/inventory-api/config"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name      string
		appEnv    string
		cfg       config.LoggerConfig
		expectErr bool
		enabled   []zapcore.Level
		disabled  []zapcore.Level
	}{
		{
			name:     "Production json",
			appEnv:   "production",
			cfg:      config.LoggerConfig{Level: "warn", Encoding: "json"},
			enabled:  []zapcore.Level{zapcore.WarnLevel, zapcore.ErrorLevel},
			disabled: []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel},
		},
		{
			name:    "Development console",
			appEnv:  "development",
			cfg:     config.LoggerConfig{Level: "debug", Encoding: "console", DisableStacktrace: true},
			enabled: []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel},
		},
		{
			name:      "Unknown level",
			appEnv:    "production",
			cfg:       config.LoggerConfig{Level: "loud", Encoding: "json"},
			expectErr: true,
		},
		{
			name:      "Unknown encoding",
			appEnv:    "production",
			cfg:       config.LoggerConfig{Level: "info", Encoding: "yaml"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(config.ServerConfig{AppEnv: tc.appEnv}, tc.cfg)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, l := range tc.enabled {
				assert.True(t, logger.Core().Enabled(l), "expected %s enabled", l)
			}
			for _, l := range tc.disabled {
				assert.False(t, logger.Core().Enabled(l), "expected %s disabled", l)
			}
		})
	}
}
