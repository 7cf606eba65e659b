package service

import (
	"os/exec"
)

// Runner spawns external programs without waiting for them.
type Runner interface {
	LookPath(file string) (string, error)
	Start(name string, args ...string) error
}

// ExecRunner runs programs through os/exec with a plain argv, never a shell.
type ExecRunner struct{}

func (ExecRunner) LookPath(file string) (string, error) { return exec.LookPath(file) }

// Start returns once the process is spawned. stdio is discarded and the
// child is reaped in the background; no handle is kept.
func (ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
