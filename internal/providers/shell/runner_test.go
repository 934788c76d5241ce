package shell

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

func requirePosix(t *testing.T, binary string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell test")
	}
	if _, err := exec.LookPath(binary); err != nil {
		t.Skipf("%s not installed", binary)
	}
}

func TestRunEchoRoundTripsNonASCII(t *testing.T) {
	marker := "héllo-世界-✓"
	families := map[types.ShellFamily]string{
		types.FamilyBash:       "bash",
		types.FamilyZsh:        "zsh",
		types.FamilyOther:      "sh",
		types.FamilyPowerShell: "pwsh",
	}

	for family, binary := range families {
		t.Run(family.String(), func(t *testing.T) {
			requirePosix(t, binary)

			result, err := NewRunner(nil).Run(context.Background(), family, `echo "`+marker+`"`, "")
			require.NoError(t, err)
			assert.Contains(t, result.Output, marker)
		})
	}
}

func TestRunExitStatusNotSurfaced(t *testing.T) {
	requirePosix(t, "bash")

	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	result, err := NewRunner(nil).WithMetrics(metrics).Run(context.Background(), types.FamilyBash, "exit 1", "")
	require.NoError(t, err)
	assert.Equal(t, "", result.Output)
	assert.Equal(t, int64(1), metrics.Snapshot().CommandsRun)
}

func TestRunMergesStderr(t *testing.T) {
	requirePosix(t, "bash")

	result, err := NewRunner(nil).Run(context.Background(), types.FamilyBash, "echo out; echo 'Active code page: 65001' >&2; echo err >&2", "")
	require.NoError(t, err)
	assert.Equal(t, "out\n\nerr", result.Output)
}

func TestRunUsesWorkingDir(t *testing.T) {
	requirePosix(t, "sh")

	dir := t.TempDir()
	result, err := NewRunner(nil).Run(context.Background(), types.FamilyOther, "pwd -P", dir)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", result.Output)
}

func TestRunSpawnFailure(t *testing.T) {
	requirePosix(t, "bash")

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	_, err := NewRunner(nil).Run(context.Background(), types.FamilyBash, "true", missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpawnFailure)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestRunTimeoutReturnsText(t *testing.T) {
	requirePosix(t, "bash")

	start := time.Now()
	result, err := NewRunner(nil).WithTimeout(200*time.Millisecond).Run(context.Background(), types.FamilyBash, "echo early; sleep 5", "")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.Contains(t, result.Output, "early")
}
