package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

var currentLevel = new(slog.LevelVar)

var baseLogger = newLogger(os.Stderr, "text")

func newLogger(w io.Writer, format string) *slog.Logger {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: currentLevel}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      currentLevel,
		TimeFormat: "15:04:05.000",
		NoColor:    w != os.Stderr && w != os.Stdout,
	}))
}

// SetLogLevel parses and sets the global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	currentLevel.Set(l)
}

// SetOutput redirects log output. format is "text" (tint) or "json".
func SetOutput(w io.Writer, format string) {
	baseLogger = newLogger(w, format)
}

// GetLogLevel returns the current global log level.
func GetLogLevel() slog.Level { return currentLevel.Level() }

func logf(l slog.Level, format string, args ...interface{}) {
	if currentLevel.Level() > l {
		return
	}
	// Only format when there are args; a pre-formatted message may contain literal % characters.
	if len(args) == 0 {
		baseLogger.Log(context.Background(), l, format)
		return
	}
	baseLogger.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(slog.LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(slog.LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(slog.LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(slog.LevelError, format, a...) }

// Timing helper for phases.
func TimeTrack(start time.Time, label string) {
	dur := time.Since(start)
	Debugf("%s took %s", label, dur)
}
