package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

func newTestBuilder(goos string) *Builder {
	return &Builder{
		GOOS: goos,
		Home: func() (string, error) { return "/home/tester", nil },
	}
}

func TestBuildPosixFamilies(t *testing.T) {
	b := newTestBuilder("linux")

	tests := []struct {
		family types.ShellFamily
		path   string
		env    []string
	}{
		{types.FamilyBash, "bash", []string{"LANG=C.UTF-8", "LC_ALL=C.UTF-8"}},
		{types.FamilyZsh, "zsh", []string{"LANG=C.UTF-8", "LC_ALL=C.UTF-8"}},
		{types.FamilyOther, "sh", []string{"LANG=C.UTF-8"}},
	}

	for _, tt := range tests {
		t.Run(tt.family.String(), func(t *testing.T) {
			inv := b.Build(tt.family, "echo hi", "")
			assert.Equal(t, tt.path, inv.Path)
			assert.Equal(t, []string{"-c", "echo hi"}, inv.Args)
			assert.Equal(t, tt.env, inv.Env)
			assert.Equal(t, "/home/tester", inv.Dir)
			assert.Empty(t, inv.CmdLine)
		})
	}
}

func TestBuildPowerShell(t *testing.T) {
	win := newTestBuilder("windows").Build(types.FamilyPowerShell, "Get-Date", "")
	assert.Equal(t, "powershell", win.Path)
	require.Len(t, win.Args, 4)
	assert.Equal(t, []string{"-NoProfile", "-NonInteractive", "-Command"}, win.Args[:3])
	assert.Equal(t, powerShellUTF8+"Get-Date", win.Args[3])

	posix := newTestBuilder("darwin").Build(types.FamilyPowerShell, "Get-Date", "")
	assert.Equal(t, "pwsh", posix.Path)
	assert.Equal(t, []string{"-NoProfile", "-Command", "Get-Date"}, posix.Args)
}

func TestBuildCmdSwitchesCodePage(t *testing.T) {
	inv := newTestBuilder("windows").Build(types.FamilyCmd, "dir", "")
	assert.Equal(t, "cmd", inv.Path)
	assert.Equal(t, []string{"/C", "@echo off & chcp 65001 >nul 2>&1 & dir"}, inv.Args)
	assert.Equal(t, `cmd /C "@echo off & chcp 65001 >nul 2>&1 & dir"`, inv.CmdLine)
}

func TestBuildUnknownFamilyUsesPlatformDefault(t *testing.T) {
	win := newTestBuilder("windows").Build(types.FamilyOther, "ver", "")
	assert.Equal(t, "cmd", win.Path)
	assert.Contains(t, win.Args[1], "chcp 65001")

	linux := newTestBuilder("linux").Build(types.ShellFamily(99), "uname", "")
	assert.Equal(t, "sh", linux.Path)
}

func TestBuildWorkingDirResolution(t *testing.T) {
	b := newTestBuilder("linux")
	assert.Equal(t, "/srv/app", b.Build(types.FamilyBash, "pwd", "/srv/app").Dir)
	assert.Equal(t, "/home/tester", b.Build(types.FamilyBash, "pwd", "").Dir)

	b.Home = func() (string, error) { return "", errors.New("no home") }
	assert.Equal(t, "", b.Build(types.FamilyBash, "pwd", "").Dir)
}

func TestBuildIsPure(t *testing.T) {
	b := newTestBuilder("linux")
	first := b.Build(types.FamilyBash, "echo a", "")
	second := b.Build(types.FamilyBash, "echo a", "")
	assert.Equal(t, first, second)
}

func TestInvocationCommandAppendsEnv(t *testing.T) {
	inv := Invocation{Path: "sh", Args: []string{"-c", "true"}, Env: []string{"LANG=C.UTF-8"}, Dir: "/tmp"}
	cmd := inv.Command(context.Background())

	assert.Equal(t, "/tmp", cmd.Dir)
	assert.Equal(t, []string{"sh", "-c", "true"}, cmd.Args)
	require.NotEmpty(t, cmd.Env)
	assert.Equal(t, "LANG=C.UTF-8", cmd.Env[len(cmd.Env)-1])
}
