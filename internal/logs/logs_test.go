package logs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"keydoctor/config"
)

func TestLevelFromString(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":         zapcore.InfoLevel,
		"DEBUG":    zapcore.DebugLevel,
		" warning": zapcore.WarnLevel,
		"error":    zapcore.ErrorLevel,
		"bogus":    zapcore.InfoLevel,
	}
	for in, want := range cases {
		require.Equal(t, want, levelFromString(in), "input %q", in)
	}
	require.False(t, levelFromString("off").Enabled(zapcore.FatalLevel))
}

func TestNewLogger_ProductionLevel(t *testing.T) {
	l, err := NewLogger(&config.Config{ENV: config.Production, LogLevel: "warn"})
	require.NoError(t, err)

	require.False(t, l.Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Core().Enabled(zapcore.WarnLevel))
}
