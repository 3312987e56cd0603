package binary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

// Exec runs path with args in the current working directory, wired to
// stdio, and blocks until it exits. It returns the child's exit code; a
// child killed by a signal reports 128+signal. A non-nil error means the
// child could not be started or waited for.
func Exec(ctx context.Context, path string, args []string, stdio Stdio) (int, error) {
	//nolint:gosec // G204: path is resolved inside the install directory
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdio.Stdin
	cmd.Stdout = stdio.Stdout
	cmd.Stderr = stdio.Stderr

	if wd, err := os.Getwd(); err == nil {
		cmd.Dir = wd
	}

	// Interrupts from a terminal already reach the child through its
	// process group, so the wrapper only needs to survive them. SIGTERM is
	// usually aimed at the wrapper alone and is passed on.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	if err := cmd.Start(); err != nil {
		return 1, &SpawnError{Path: path, Err: err}
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case sig := <-signals:
				if sig == syscall.SIGTERM {
					_ = cmd.Process.Signal(sig)
				}
			case <-done:
				return
			}
		}
	}()

	return exitCode(path, cmd.Wait())
}

func exitCode(path string, err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1, fmt.Errorf("wait for %s: %w", path, err)
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal()), nil
	}

	return exitErr.ExitCode(), nil
}
