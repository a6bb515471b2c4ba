// Package logging configures the process-wide zerolog logger used by
// conv's observability wiring and by internal/debugserver. It keeps the
// teacher's Profile/Configure/env-override shape, built directly on
// zerolog rather than through an intermediate logging facade.
package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "EXTPROT_LOG_LEVEL"
	EnvLogTimestamp = "EXTPROT_LOG_TIMESTAMP"
	EnvLogNoColor   = "EXTPROT_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

var (
	configureOnce sync.Once
	logger        zerolog.Logger
)

// ConfigureRuntime configures the process logger for normal operation:
// info level, timestamps on.
func ConfigureRuntime() { Configure(ProfileRuntime) }

// ConfigureTests configures the process logger for test runs: debug
// level, no timestamps (so test output diffs deterministically).
func ConfigureTests() { Configure(ProfileTest) }

// Configure applies profile exactly once per process; later calls are
// no-ops.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)

		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339, NoColor: cfg.NoColor}
		l := zerolog.New(out).Level(cfg.Level)
		if cfg.Timestamp {
			l = l.With().Timestamp().Logger()
		}
		logger = l
	})
}

// Logger returns the configured process logger, configuring it for
// runtime use if no Configure call has happened yet.
func Logger() zerolog.Logger {
	ConfigureRuntime()
	return logger
}

func defaultConfig(profile Profile) config {
	switch profile {
	case ProfileTest:
		return config{Level: zerolog.DebugLevel, Timestamp: false}
	default:
		return config{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

func applyEnvOverrides(cfg *config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
