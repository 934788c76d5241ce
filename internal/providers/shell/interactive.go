package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// Interactive resolves the shell spawned for terminal sessions: override if
// set, else $SHELL, else the platform default.
func Interactive(goos, override string) (string, types.ShellFamily) {
	path := override
	if path == "" && goos != "windows" {
		path = os.Getenv("SHELL")
	}
	if path == "" {
		if goos == "windows" {
			path = "powershell.exe"
		} else {
			path = "/bin/bash"
		}
	}
	return path, FamilyOf(path)
}

// FamilyOf infers the shell family from an executable path
func FamilyOf(path string) types.ShellFamily {
	base := strings.ToLower(filepath.Base(strings.ReplaceAll(path, `\`, "/")))
	base = strings.TrimSuffix(base, ".exe")
	return types.ParseShellFamily(base)
}
