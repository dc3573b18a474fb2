package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Options overrides profile defaults. Zero values keep the profile default,
// except Level, which only applies when it parses.
type Options struct {
	Level     string
	Timestamp *bool
	NoColor   bool
	JSON      bool
	Output    io.Writer
}

var configureOnce sync.Once

func ConfigureRuntime(opts Options) {
	Configure(ProfileRuntime, opts)
}

func ConfigureTests() {
	Configure(ProfileTest, Options{})
}

// Configure installs the process-wide logger. Only the first call has effect.
func Configure(profile Profile, opts Options) {
	configureOnce.Do(func() {
		log.Logger = New(profile, opts)
	})
}

// New builds a logger for profile and opts without touching the global one.
func New(profile Profile, opts Options) zerolog.Logger {
	level, timestamp := defaults(profile)
	if lvl, ok := ParseLevel(opts.Level); ok {
		level = lvl
	}
	if opts.Timestamp != nil {
		timestamp = *opts.Timestamp
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		cw := zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    opts.NoColor,
			TimeFormat: time.RFC3339,
		}
		if !timestamp {
			cw.PartsExclude = []string{zerolog.TimestampFieldName}
		}
		out = cw
	}

	ctx := zerolog.New(out).Level(level).With().Str("app", "postbuild")
	if timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

func defaults(profile Profile) (zerolog.Level, bool) {
	switch profile {
	case ProfileTest:
		return zerolog.DebugLevel, false
	default:
		return zerolog.InfoLevel, true
	}
}

// ParseLevel maps a user supplied level name to a zerolog level.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
