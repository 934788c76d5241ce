package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/shared/charset"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// ErrSpawnFailure is returned when the OS cannot create the process
var ErrSpawnFailure = errors.New("spawn failure")

// Runner executes one command per call and returns its text
type Runner struct {
	builder  *Builder
	resolver *charset.Resolver
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	timeout  time.Duration
}

// NewRunner creates a runner for the host platform
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		builder:  NewBuilder(),
		resolver: charset.Default(),
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the runner
func (r *Runner) WithMetrics(metrics *monitoring.Metrics) *Runner {
	r.metrics = metrics
	return r
}

// WithTimeout bounds every run. Zero disables the bound.
func (r *Runner) WithTimeout(timeout time.Duration) *Runner {
	r.timeout = timeout
	return r
}

// WithBuilder replaces the invocation builder
func (r *Runner) WithBuilder(b *Builder) *Runner {
	r.builder = b
	return r
}

// WithResolver replaces the output decoder
func (r *Runner) WithResolver(res *charset.Resolver) *Runner {
	r.resolver = res
	return r
}

// Run executes command under family and returns the combined output.
//
// The only error is ErrSpawnFailure. A command that runs and exits non-zero
// still succeeds here; its status is not part of the result.
func (r *Runner) Run(ctx context.Context, family types.ShellFamily, command, workingDir string) (*types.CommandResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	inv := r.builder.Build(family, command, workingDir)
	cmd := inv.Command(ctx)
	// Grandchildren holding the pipes must not outlive a cancelled run.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	timer := monitoring.NewCommandTimer(r.metrics, family.String())
	logger := r.logger.With(
		zap.String("shell_type", family.String()),
		zap.String("path", inv.Path),
		zap.String("dir", inv.Dir),
	)

	if err := cmd.Start(); err != nil {
		timer.Stop("spawn_failure")
		logger.Warn("Failed to start command", zap.Error(err))
		return nil, fmt.Errorf("%w: failed to execute command: %v", ErrSpawnFailure, err)
	}

	waitErr := cmd.Wait()
	outcome := "ok"
	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		outcome = "timeout"
	case errors.As(waitErr, &exitErr):
		outcome = "nonzero_exit"
	case waitErr != nil:
		outcome = "wait_error"
	}
	duration := timer.Stop(outcome)

	logger.Debug("Command finished",
		zap.String("outcome", outcome),
		zap.Int("exit_code", cmd.ProcessState.ExitCode()),
		zap.Duration("duration", duration),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Int("stderr_bytes", stderr.Len()),
	)
	out, enc := r.resolver.DecodeWith(stdout.Bytes(), family)
	if enc != "utf-8" {
		logger.Debug("Command output is not UTF-8",
			zap.String("decoded_as", enc),
			zap.String("sniffed_charset", charset.Sniff(stdout.Bytes())))
	}
	errText := FilterStderr(r.resolver.Decode(stderr.Bytes(), family))

	return &types.CommandResult{Output: Merge(out, errText)}, nil
}
