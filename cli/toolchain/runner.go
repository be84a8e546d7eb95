package toolchain

// runner.go contains local command execution for tool invocations.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes tool commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as local subprocesses.
type ExecRunner struct {
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner creates a runner that passes tool output through to the
// process's stdout and stderr.
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{
		logger: logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithOutput returns a copy of the runner writing tool output to stdout and stderr.
func (r *ExecRunner) WithOutput(stdout, stderr io.Writer) *ExecRunner {
	c := *r
	c.stdout = stdout
	c.stderr = stderr
	return &c
}

// Run executes cmd and waits for it. A non-zero exit status is returned as
// an error wrapping the *exec.ExitError.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = r.stdout
	if cmd.DiscardStdout {
		c.Stdout = io.Discard
	}
	c.Stderr = r.stderr

	r.logger.Debug().
		Str("command", cmd.String()).
		Str("dir", cmd.Dir).
		Msg("Executing")

	start := time.Now()
	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Debug().
				Str("command", cmd.String()).
				Int("exit_code", exitErr.ExitCode()).
				Msg("Command failed")
			return fmt.Errorf("%s exited with code %d: %w", cmd.Name, exitErr.ExitCode(), err)
		}
		return fmt.Errorf("failed to execute %s: %w", cmd.Name, err)
	}

	r.logger.Debug().
		Str("command", cmd.Name).
		Dur("duration", time.Since(start)).
		Msg("Command completed")
	return nil
}
