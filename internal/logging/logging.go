// Package logging wires up log/slog the way the teacher's cmd/dang/main.go
// does (a single *slog.Logger installed via slog.SetDefault), but chooses
// between a colorized interactive handler and a plain file handler the way
// a terminal editor needs to: the tint handler is for a human watching
// stderr (or a separate debug pane), the text handler is for --log <path>
// and for LSP subprocess diagnostics where ANSI escapes would corrupt the
// log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Options configures Setup.
type Options struct {
	// Writer is where log output goes. Defaults to os.Stderr.
	Writer io.Writer
	// Filter is a --log-filter spec: either a bare level ("debug", "info",
	// "warn", "error") or a comma-separated list of "scope=level" pairs
	// (e.g. "lsp=debug,search=warn"). An empty filter means info level,
	// no per-scope overrides.
	Filter string
	// NoColor forces the plain handler even on a TTY, honoring NO_COLOR.
	NoColor bool
}

// ScopedLevels holds per-component minimum levels parsed from a filter
// spec. Setup applies only Default to the installed handler; Scopes is
// reachable through Level, but no handler filters records by scope.
type ScopedLevels struct {
	Default slog.Level
	Scopes  map[string]slog.Level
}

// Level returns the minimum level for scope, falling back to Default.
func (s *ScopedLevels) Level(scope string) slog.Level {
	if s == nil {
		return slog.LevelInfo
	}
	if lvl, ok := s.Scopes[scope]; ok {
		return lvl
	}
	return s.Default
}

// ParseFilter parses a --log-filter spec into ScopedLevels.
func ParseFilter(filter string) (*ScopedLevels, error) {
	sl := &ScopedLevels{Default: slog.LevelInfo, Scopes: map[string]slog.Level{}}
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return sl, nil
	}
	for _, part := range strings.Split(filter, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "=") {
			lvl, err := parseLevel(part)
			if err != nil {
				return nil, fmt.Errorf("log filter %q: %w", part, err)
			}
			sl.Default = lvl
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		lvl, err := parseLevel(kv[1])
		if err != nil {
			return nil, fmt.Errorf("log filter %q: %w", part, err)
		}
		sl.Scopes[kv[0]] = lvl
	}
	return sl, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}

// Setup builds and installs a *slog.Logger as the process default, and
// returns it for components that want an explicit reference (e.g. the LSP
// orchestrator logging with a "lsp" scope).
func Setup(opts Options) (*slog.Logger, *ScopedLevels, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	scoped, err := ParseFilter(opts.Filter)
	if err != nil {
		return nil, nil, err
	}

	var handler slog.Handler
	if useColor(w, opts.NoColor) {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      scoped.Default,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: scoped.Default})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, scoped, nil
}

// useColor honors NO_COLOR (any non-empty value disables color, per the
// convention at https://no-color.org) and falls back to TTY detection
// otherwise, matching the editor's §6 environment contract.
func useColor(w io.Writer, forceOff bool) bool {
	if forceOff {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ForScope returns a logger tagged with a "scope" attribute, for components
// like the LSP orchestrator or search engine. levels is not consulted:
// records from the returned logger are filtered at the handler's Default
// level like any other.
func ForScope(logger *slog.Logger, levels *ScopedLevels, scope string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("scope", scope)
}
