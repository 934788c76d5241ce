package shell

import (
	"context"
	"os"
	"os/exec"
	"runtime"

	"github.com/GriffinCanCode/termhost/internal/shared/paths"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

const (
	// powerShellUTF8 switches both the pipeline and the console to UTF-8
	powerShellUTF8 = "$OutputEncoding = [Console]::OutputEncoding = [System.Text.Encoding]::UTF8; "

	// cmdUTF8 switches the console to code page 65001 and hides the chcp banner
	cmdUTF8 = "@echo off & chcp 65001 >nul 2>&1 & "
)

var utf8Locale = []string{"LANG=C.UTF-8", "LC_ALL=C.UTF-8"}

// Invocation is a fully resolved process to run
type Invocation struct {
	Path string
	Args []string
	Env  []string // appended to the parent environment
	Dir  string   // empty means the current directory

	// CmdLine is the verbatim command line for cmd.exe on Windows, which does
	// not follow the quoting rules exec applies to Args.
	CmdLine string
}

// Command creates the exec.Cmd for the invocation
func (inv Invocation) Command(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}
	configureCmdLine(cmd, inv)
	return cmd
}

// Builder maps shell families to invocations
type Builder struct {
	GOOS string
	Home func() (string, error)
}

// NewBuilder creates a builder for the host platform
func NewBuilder() *Builder {
	return &Builder{
		GOOS: runtime.GOOS,
		Home: paths.HomeDir,
	}
}

// Build returns the invocation that runs command once under family and exits.
// It has no side effects and cannot fail: an unrecognized family falls back to
// the platform default shell.
func (b *Builder) Build(family types.ShellFamily, command, workingDir string) Invocation {
	inv := b.invocation(family, command)
	inv.Dir = paths.ResolveWorkingDirWith(workingDir, b.Home)
	return inv
}

func (b *Builder) invocation(family types.ShellFamily, command string) Invocation {
	switch family {
	case types.FamilyPowerShell:
		if b.windows() {
			return Invocation{
				Path: "powershell",
				Args: []string{"-NoProfile", "-NonInteractive", "-Command", powerShellUTF8 + command},
			}
		}
		return Invocation{
			Path: "pwsh",
			Args: []string{"-NoProfile", "-Command", command},
		}
	case types.FamilyCmd:
		return cmdInvocation(command)
	case types.FamilyBash:
		return posixInvocation("bash", command, utf8Locale...)
	case types.FamilyZsh:
		return posixInvocation("zsh", command, utf8Locale...)
	case types.FamilyOther:
		return b.platformDefault(command)
	default:
		return b.platformDefault(command)
	}
}

func (b *Builder) platformDefault(command string) Invocation {
	if b.windows() {
		return cmdInvocation(command)
	}
	return posixInvocation("sh", command, "LANG=C.UTF-8")
}

func (b *Builder) windows() bool {
	return b.GOOS == "windows"
}

func cmdInvocation(command string) Invocation {
	wrapped := cmdUTF8 + command
	return Invocation{
		Path:    "cmd",
		Args:    []string{"/C", wrapped},
		CmdLine: `cmd /C "` + wrapped + `"`,
	}
}

func posixInvocation(shell, command string, env ...string) Invocation {
	return Invocation{
		Path: shell,
		Args: []string{"-c", command},
		Env:  env,
	}
}
