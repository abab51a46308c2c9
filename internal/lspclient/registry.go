package lspclient

import (
	"log/slog"
	"os/exec"
	"sync"
)

// processRegistry tracks every spawned language-server process for
// cleanup on editor exit, mirroring the teacher's pkg/dang/project.go
// ServiceRegistry.StopAll process-group kill pattern (SPEC_FULL.md
// "Supplemented: project config & service-style language servers").
type processRegistry struct {
	mu    sync.Mutex
	procs []*exec.Cmd
}

func (r *processRegistry) register(cmd *exec.Cmd) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.procs = append(r.procs, cmd)
}

// StopAll kills every registered server's process group. Called once, on
// editor shutdown.
func (r *processRegistry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cmd := range r.procs {
		if cmd.Process != nil {
			slog.Info("stopping language server", "pid", cmd.Process.Pid)
			_ = killProcessGroup(cmd)
		}
	}
	r.procs = nil
}
