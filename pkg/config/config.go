// Package config maps the isasim configuration (file, environment and flags, through viper)
// into the settings of the simulator components.
package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/Manu343726/isasim/pkg/utils"
	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	Key_VectorLength      = "regfile.vl"
	Key_PredicateStrategy = "regfile.predicate_strategy"
	Key_Seed              = "regfile.seed"
	Key_ResetZero         = "regfile.reset_zero"
	Key_LogLevel          = "log.level"
	Key_LogFile           = "log.file"
	Key_Color             = "color"

	EnvPrefix = "ISASIM"
)

// Logging settings. Logs always go to stderr, and also to File in JSON if set.
type Log struct {
	Level slog.Level
	File  string
}

type Config struct {
	RegisterFile regfile.Settings
	Log          Log
	Color        bool
}

// Registers default values for all configuration keys
func SetDefaults(v *viper.Viper) {
	defaults := regfile.DefaultSettings()

	v.SetDefault(Key_VectorLength, defaults.VectorLength)
	v.SetDefault(Key_PredicateStrategy, defaults.PredicateStrategy.String())
	v.SetDefault(Key_Seed, defaults.Seed)
	v.SetDefault(Key_ResetZero, defaults.ResetZero)
	v.SetDefault(Key_LogLevel, "info")
	v.SetDefault(Key_LogFile, "")
	v.SetDefault(Key_Color, true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Reads and validates the configuration
func Load(v *viper.Viper) (Config, error) {
	strategy, err := regfile.ParsePredicateStrategy(v.GetString(Key_PredicateStrategy))
	if err != nil {
		return Config{}, utils.MakeError(ErrInvalidConfig, "%v: %w", Key_PredicateStrategy, err)
	}

	config := Config{
		RegisterFile: regfile.Settings{
			VectorLength:      v.GetInt(Key_VectorLength),
			PredicateStrategy: strategy,
			Seed:              v.GetInt64(Key_Seed),
			ResetZero:         v.GetBool(Key_ResetZero),
		},
		Log: Log{
			File: v.GetString(Key_LogFile),
		},
		Color: v.GetBool(Key_Color),
	}

	if err := config.RegisterFile.Validate(); err != nil {
		return Config{}, utils.MakeError(ErrInvalidConfig, "%w", err)
	}

	if err := config.Log.Level.UnmarshalText([]byte(v.GetString(Key_LogLevel))); err != nil {
		return Config{}, utils.MakeError(ErrInvalidConfig, "%v: %w", Key_LogLevel, err)
	}

	return config, nil
}

// Creates the logger described by the settings. stderr receives human readable logs.
// The returned closer releases the log file, if any.
func (l Log) NewLogger(stderr io.Writer) (*slog.Logger, io.Closer, error) {
	options := &slog.HandlerOptions{Level: l.Level}
	handlers := []slog.Handler{slog.NewTextHandler(stderr, options)}
	var closer io.Closer = nopCloser{}

	if l.File != "" {
		file, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, utils.MakeError(ErrInvalidConfig, "cannot open log file: %w", err)
		}

		handlers = append(handlers, slog.NewJSONHandler(file, options))
		closer = file
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Loads the process wide configuration (the global viper instance), applies the color
// setting and creates the logger. Callers must close the returned closer when done.
func Init(stderr io.Writer) (Config, *slog.Logger, io.Closer, error) {
	config, err := Load(viper.GetViper())
	if err != nil {
		return Config{}, nil, nil, err
	}

	if !config.Color {
		color.NoColor = true
	}

	logger, closer, err := config.Log.NewLogger(stderr)
	if err != nil {
		return Config{}, nil, nil, err
	}

	return config, logger, closer, nil
}
