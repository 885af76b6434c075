// Package log configures structured logging for heartdash using log/slog.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Level maps the verbosity flags to a slog level. Quiet wins over verbose.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Setup configures the default slog logger based on verbosity flags.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above, each line tagged with file:line
//
// Output is written to stderr using slog.TextHandler.
func Setup(verbose, quiet bool) {
	SetupWriter(os.Stderr, verbose, quiet)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, verbose, quiet bool) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       Level(verbose, quiet),
		AddSource:   verbose && !quiet,
		ReplaceAttr: shortSource,
	})
	slog.SetDefault(slog.New(handler))
}

// Component returns the default logger tagged with component=name. Call it
// after Setup; the logger keeps the handler installed at call time.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

// shortSource trims the source attribute to the file's base name and line.
func shortSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
		a.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
	}
	return a
}
