// Package agent implements channels to execution agents: an in-process
// channel on the local machine and a gRPC client and server so the same
// channel can be reached on a remote machine.
package agent

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Channel = (*Local)(nil)

// Local is a channel to the machine the process runs on.
type Local struct {
	id  string
	tty bool
}

// LocalOption configures a Local channel.
type LocalOption func(*Local)

// WithTTY runs launched processes on a pseudo terminal, merging their
// output the way an interactive shell would.
func WithTTY(enabled bool) LocalOption {
	return func(l *Local) {
		l.tty = enabled
	}
}

// NewLocal creates a channel to the local machine identified as id.
func NewLocal(id string, opts ...LocalOption) *Local {
	l := &Local{id: id}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ID returns the agent identity.
func (l *Local) ID() string {
	return l.id
}

// CreateTempFile writes content to a new file named prefix*suffix in dir.
func (l *Local) CreateTempFile(_ context.Context, dir, prefix, suffix, content string) (string, error) {
	f, err := os.CreateTemp(dir, prefix+"*"+suffix)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create temp file"), "dir", dir)
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", zerr.With(zerr.Wrap(err, "failed to write temp file"), "path", f.Name())
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", zerr.With(zerr.Wrap(err, "failed to close temp file"), "path", f.Name())
	}

	return f.Name(), nil
}

// Delete removes the file at path.
func (l *Local) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to delete file"), "path", path)
	}
	return nil
}

// Launch runs spec with the process environment overlaid by spec.Env.
// Cancelling ctx kills the process.
func (l *Local) Launch(ctx context.Context, spec domain.LaunchSpec, output io.Writer) (int, error) {
	if len(spec.Argv) == 0 {
		return -1, domain.ErrEmptyArgv
	}

	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...) //nolint:gosec // operator supplied command
	cmd.Dir = spec.Dir
	cmd.Env = mergeEnv(os.Environ(), spec.Env)

	if l.tty {
		return launchPTY(ctx, cmd, output)
	}

	cmd.Stdout = output
	cmd.Stderr = output

	if err := cmd.Start(); err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to start process"), "program", spec.Argv[0])
	}
	return exitCode(ctx, cmd.Wait())
}

// Close does nothing for a local channel.
func (l *Local) Close() error {
	return nil
}

func launchPTY(ctx context.Context, cmd *exec.Cmd, output io.Writer) (int, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to start pty"), "program", cmd.Path)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		_, _ = io.Copy(output, ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone

	return exitCode(ctx, waitErr)
}

// exitCode turns the result of Wait into an exit code. A process that exited
// on its own is never an error, whatever its code.
func exitCode(ctx context.Context, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return -1, zerr.Wrap(ctx.Err(), "process cancelled")
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, zerr.Wrap(err, "failed to wait for process")
}

// mergeEnv lays overlay over base, a list of KEY=VALUE entries.
// Base entries whose key is overridden are dropped; overlay keys are appended in sorted order.
func mergeEnv(base []string, overlay map[string]string) []string {
	out := make([]string, 0, len(base)+len(overlay))
	for _, entry := range base {
		key, _, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		if _, replaced := overlay[key]; replaced {
			continue
		}
		out = append(out, entry)
	}

	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		out = append(out, k+"="+overlay[k])
	}
	return out
}
