package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	config, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, regfile.DefaultSettings(), config.RegisterFile)
	assert.False(t, config.RegisterFile.ResetZero)
	assert.Equal(t, slog.LevelInfo, config.Log.Level)
	assert.Empty(t, config.Log.File)
	assert.True(t, config.Color)
}

func TestLoad_FromYAML(t *testing.T) {
	v := newViper()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
regfile:
  vl: 512
  predicate_strategy: random
  seed: 42
  reset_zero: true
log:
  level: debug
color: false
`)))

	config, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, regfile.Settings{
		VectorLength:      512,
		PredicateStrategy: regfile.PredicateStrategy_Random,
		Seed:              42,
		ResetZero:         true,
	}, config.RegisterFile)
	assert.Equal(t, slog.LevelDebug, config.Log.Level)
	assert.False(t, config.Color)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ISASIM_REGFILE_VL", "1024")
	t.Setenv("ISASIM_LOG_LEVEL", "warn")
	t.Setenv("ISASIM_REGFILE_RESET_ZERO", "true")

	config, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, 1024, config.RegisterFile.VectorLength)
	assert.Equal(t, slog.LevelWarn, config.Log.Level)
	assert.True(t, config.RegisterFile.ResetZero)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		key      string
		value    any
		expected error
	}{
		{Key_VectorLength, 100, regfile.ErrInvalidSize},
		{Key_VectorLength, 4096, regfile.ErrInvalidSize},
		{Key_PredicateStrategy, "sometimes", regfile.ErrInvalidStrategy},
		{Key_LogLevel, "verbose", ErrInvalidConfig},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			v := newViper()
			v.Set(test.key, test.value)

			_, err := Load(v)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorIs(t, err, test.expected)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var stderr bytes.Buffer
	file := filepath.Join(t.TempDir(), "isasim.log")

	logger, closer, err := Log{Level: slog.LevelDebug, File: file}.NewLogger(&stderr)
	require.NoError(t, err)

	logger.Debug("hello", "register", "x0")
	require.NoError(t, closer.Close())

	assert.Contains(t, stderr.String(), "msg=hello register=x0")

	contents, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"msg":"hello","register":"x0"`)
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var stderr bytes.Buffer

	logger, closer, err := Log{Level: slog.LevelWarn}.NewLogger(&stderr)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("ignored")
	logger.Warn("kept")

	assert.NotContains(t, stderr.String(), "ignored")
	assert.Contains(t, stderr.String(), "kept")
}

func TestNewLogger_BadFile(t *testing.T) {
	_, _, err := Log{File: filepath.Join(t.TempDir(), "missing", "isasim.log")}.NewLogger(&bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
