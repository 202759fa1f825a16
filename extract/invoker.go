package extract

import (
	"bytes"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"markestedt/dropzip/platform"
)

// Invoker runs one tool invocation to completion
type Invoker interface {
	Invoke(spec Spec) (Result, error)
}

// ProcessInvoker starts the tool as a hidden child process and waits for it.
// There is no timeout: a hung tool blocks its batch.
type ProcessInvoker struct{}

// Invoke returns a *LaunchError if the process cannot start. A non-zero exit
// is reported in Result, not as an error.
func (ProcessInvoker) Invoke(spec Spec) (Result, error) {
	cmd := exec.Command(spec.Executable, spec.Args...)
	platform.HideWindow(cmd)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{}, &LaunchError{Path: spec.Executable, Err: err}
	}

	err := cmd.Wait()
	res := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stderr:   strings.TrimSpace(stderr.String()),
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		slog.Warn("Tool finished with I/O error", "command", spec.CommandLine(), "error", err)
	}

	return res, nil
}

// DryRunInvoker only logs what would run. It is a debugging aid enabled by
// tool.dry_run and always reports success.
type DryRunInvoker struct{}

func (DryRunInvoker) Invoke(spec Spec) (Result, error) {
	slog.Info("Dry run", "command", spec.CommandLine())
	return Result{}, nil
}
