package lspclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// envLoader loads a project directory's .envrc via direnv before a
// language server is spawned in it, adapted from the teacher's
// handle_initialize.go loadEnvrc: direnv only evaluates a .envrc the user
// has explicitly allowed, so a stalled or unallowed .envrc degrades to
// "no extra environment" instead of blocking the spawn (SPEC_FULL.md
// "Supplemented: .envrc/direnv-style environment loading for LSP spawns").
type envLoader struct {
	mu     sync.Mutex
	loaded map[string][]string // dir -> "KEY=VALUE" pairs already resolved
}

func newEnvLoader() *envLoader {
	return &envLoader{loaded: make(map[string][]string)}
}

// loadProjectEnv returns extra "KEY=VALUE" environment entries for dir,
// to append to a spawned server's os/exec.Cmd.Env. Bounded to 30s so an
// unreachable or misbehaving direnv hook never stalls startup.
func (l *envLoader) loadProjectEnv(ctx context.Context, dir string) []string {
	l.mu.Lock()
	if env, ok := l.loaded[dir]; ok {
		l.mu.Unlock()
		return env
	}
	l.mu.Unlock()

	env := l.resolve(ctx, dir)

	l.mu.Lock()
	l.loaded[dir] = env
	l.mu.Unlock()
	return env
}

func (l *envLoader) resolve(ctx context.Context, dir string) []string {
	envrcPath := filepath.Join(dir, ".envrc")
	if _, err := os.Stat(envrcPath); err != nil {
		return nil
	}

	direnvPath, err := exec.LookPath("direnv")
	if err != nil {
		slog.InfoContext(ctx, ".envrc found but direnv is not installed, skipping", "dir", dir)
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cctx, direnvPath, "export", "json")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		slog.InfoContext(ctx, "direnv export json failed (not allowed?), skipping .envrc", "dir", dir, "error", err)
		return nil
	}
	if len(output) == 0 {
		return nil
	}

	var vars map[string]*string
	if err := json.Unmarshal(output, &vars); err != nil {
		slog.WarnContext(ctx, "failed to parse direnv output", "dir", dir, "error", err)
		return nil
	}

	var env []string
	for k, v := range vars {
		if v != nil {
			env = append(env, k+"="+*v)
		}
	}
	slog.InfoContext(ctx, "loaded environment from .envrc", "dir", dir, "vars", len(env))
	return env
}
