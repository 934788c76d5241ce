package shell

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// ErrNoShells is returned when probing finds nothing usable
var ErrNoShells = errors.New("no shells found")

const probeTimeout = 3 * time.Second

type candidate struct {
	descriptor types.ShellDescriptor
	args       []string
	always     bool
}

// Prober discovers which shells can be started on this host
type Prober struct {
	goos   string
	extra  []types.ShellDescriptor
	logger *zap.Logger

	// start reports whether the program could be started
	start func(ctx context.Context, path string, args ...string) bool
}

// NewProber creates a prober for the host platform. Extra descriptors are
// appended to the probed list.
func NewProber(logger *zap.Logger, extra ...types.ShellDescriptor) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		goos:   runtime.GOOS,
		extra:  extra,
		logger: logger,
		start:  startable,
	}
}

// Available returns the shells that could be started, in menu order
func (p *Prober) Available(ctx context.Context) ([]types.ShellDescriptor, error) {
	var shells []types.ShellDescriptor
	seen := make(map[string]bool)

	for _, c := range p.candidates() {
		if !c.always {
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			ok := p.start(probeCtx, c.descriptor.Path, c.args...)
			cancel()
			if !ok {
				p.logger.Debug("Shell not available", zap.String("path", c.descriptor.Path))
				continue
			}
		}
		shells = append(shells, c.descriptor)
		seen[c.descriptor.Path] = true
	}

	for _, d := range p.extra {
		if d.Path == "" || seen[d.Path] {
			continue
		}
		shells = append(shells, d)
		seen[d.Path] = true
	}

	if len(shells) == 0 {
		return nil, ErrNoShells
	}
	return shells, nil
}

func (p *Prober) candidates() []candidate {
	psArgs := []string{"-Command", "echo test"}
	shArgs := []string{"-c", "echo test"}

	if p.goos == "windows" {
		return []candidate{
			{descriptor: types.ShellDescriptor{Name: "PowerShell", Path: "powershell", Family: types.FamilyPowerShell}, args: psArgs},
			{descriptor: types.ShellDescriptor{Name: "PowerShell Core", Path: "pwsh", Family: types.FamilyPowerShell}, args: psArgs},
			{descriptor: types.ShellDescriptor{Name: "Command Prompt", Path: "cmd", Family: types.FamilyCmd}, always: true},
			{descriptor: types.ShellDescriptor{Name: "Bash", Path: "bash", Family: types.FamilyBash}, args: shArgs},
		}
	}
	return []candidate{
		{descriptor: types.ShellDescriptor{Name: "Bash", Path: "bash", Family: types.FamilyBash}, args: shArgs},
		{descriptor: types.ShellDescriptor{Name: "Zsh", Path: "zsh", Family: types.FamilyZsh}, args: shArgs},
		{descriptor: types.ShellDescriptor{Name: "PowerShell Core", Path: "pwsh", Family: types.FamilyPowerShell}, args: psArgs},
	}
}

// startable runs the probe; a non-zero exit still counts as available
func startable(ctx context.Context, path string, args ...string) bool {
	err := exec.CommandContext(ctx, path, args...).Run()
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
