// Package runner executes the post_generate shell commands.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"github.com/creack/pty"
	"github.com/sirupsen/logrus"
)

// Runner runs shell commands one after another in Dir.
type Runner struct {
	Dir    string
	Env    []string
	Output io.Writer
	// PTY runs commands on a pseudo-terminal so formatters keep their
	// colours. Without PTY support the commands fall back to plain pipes.
	PTY bool
	Log logrus.FieldLogger
}

// New returns a runner that writes command output to stdout.
func New(dir string, log logrus.FieldLogger) *Runner {
	return &Runner{Dir: dir, Output: os.Stdout, PTY: true, Log: log}
}

// Run executes commands in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, commands []string) error {
	for _, command := range commands {
		r.logger().WithField("command", command).Info("🔧 Running post-generate command")
		if err := r.run(ctx, command); err != nil {
			return fmt.Errorf("post-generate command %q failed: %w", command, err)
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, command string) error {
	if r.PTY {
		err := r.runPTY(ctx, command)
		if !errors.Is(err, errNoPTY) {
			return err
		}
		r.logger().Debug("pseudo-terminal unavailable, using pipes")
	}

	cmd := r.command(ctx, command)
	cmd.Stdout = r.output()
	cmd.Stderr = r.output()
	return cmd.Run()
}

var errNoPTY = errors.New("pty unavailable")

func (r *Runner) runPTY(ctx context.Context, command string) error {
	cmd := r.command(ctx, command)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("%w: %v", errNoPTY, err)
	}
	defer ptmx.Close()

	// Reading the master returns EIO once the child exits.
	if _, err := io.Copy(r.output(), ptmx); err != nil && !errors.Is(err, syscall.EIO) {
		r.logger().WithError(err).Debug("reading command output")
	}
	return cmd.Wait()
}

func (r *Runner) command(ctx context.Context, command string) *exec.Cmd {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), r.Env...)
	return cmd
}

func (r *Runner) output() io.Writer {
	if r.Output == nil {
		return io.Discard
	}
	return r.Output
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}
