package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-regform/pkg/controller"
)

// Environment variable names.
const (
	EnvAddr           = "REGFORM_ADDR"
	EnvSubmitDelay    = "REGFORM_SUBMIT_DELAY"
	EnvDefinition     = "REGFORM_DEFINITION"
	EnvLogLevel       = "REGFORM_LOG_LEVEL"
	EnvMode           = "REGFORM_ENV"
	EnvOutput         = "REGFORM_OUTPUT"
	EnvRefreshSeconds = "REGFORM_REFRESH_SECONDS"
	EnvThemeVariant   = "REGFORM_THEME_VARIANT"
)

// Config captures process level settings shared by every subcommand.
type Config struct {
	Addr           string
	SubmitDelay    time.Duration
	Definition     string
	LogLevel       string
	Env            string
	Output         string
	RefreshSeconds int
	ThemeVariant   string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:           ":8080",
		SubmitDelay:    controller.DefaultSubmitDelay,
		LogLevel:       "info",
		Env:            "production",
		Output:         "json",
		RefreshSeconds: 1,
	}
}

// LoadDotEnv loads the given files into the process environment. Existing
// variables win and missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

// FromEnv builds a Config from REGFORM_* variables on top of Default.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := nonEmpty(lookup, EnvAddr); ok {
		cfg.Addr = v
	}
	if v, ok := nonEmpty(lookup, EnvDefinition); ok {
		cfg.Definition = v
	}
	if v, ok := nonEmpty(lookup, EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := nonEmpty(lookup, EnvMode); ok {
		cfg.Env = strings.ToLower(v)
	}
	if v, ok := nonEmpty(lookup, EnvThemeVariant); ok {
		cfg.ThemeVariant = strings.ToLower(v)
	}
	if v, ok := nonEmpty(lookup, EnvOutput); ok {
		cfg.Output = strings.ToLower(v)
	}
	if v, ok := nonEmpty(lookup, EnvSubmitDelay); ok {
		delay, err := parseDelay(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvSubmitDelay, err)
		}
		cfg.SubmitDelay = delay
	}
	if v, ok := nonEmpty(lookup, EnvRefreshSeconds); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("config: %s: invalid value %q", EnvRefreshSeconds, v)
		}
		cfg.RefreshSeconds = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the commands cannot run with.
func (c Config) Validate() error {
	if c.SubmitDelay < 0 {
		return errors.New("config: submit delay must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	return nil
}

// Development reports whether the process runs in development mode.
func (c Config) Development() bool {
	switch c.Env {
	case "dev", "development", "local":
		return true
	}
	return false
}

// NewLogger builds the process logger for the configured mode and level.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if c.Development() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}
	return logger, nil
}

// parseDelay accepts a Go duration ("1.5s") or a bare number of milliseconds.
func parseDelay(raw string) (time.Duration, error) {
	if ms, err := strconv.Atoi(raw); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative delay %q", raw)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative delay %q", raw)
	}
	return d, nil
}

func nonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
