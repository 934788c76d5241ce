package paths

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoHome is returned when no home directory variable is set
var ErrNoHome = errors.New("home directory not set (USERPROFILE, HOME)")

// AppName is the directory name used under the user's config root
const AppName = "termhost"

// Lookup reads an environment variable
type Lookup func(key string) (string, bool)

// HomeDir returns the process owner's home directory
func HomeDir() (string, error) {
	return HomeDirFrom(os.LookupEnv)
}

// HomeDirFrom resolves the home directory through lookup
func HomeDirFrom(lookup Lookup) (string, error) {
	for _, key := range []string{"USERPROFILE", "HOME"} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return v, nil
		}
	}
	return "", ErrNoHome
}

// ResolveWorkingDir returns explicit if set, else the home directory, else ""
// (meaning the current directory of the process).
func ResolveWorkingDir(explicit string) string {
	return ResolveWorkingDirWith(explicit, HomeDir)
}

// ResolveWorkingDirWith is ResolveWorkingDir with an injectable home resolver
func ResolveWorkingDirWith(explicit string, home func() (string, error)) string {
	if explicit != "" {
		return explicit
	}
	if home == nil {
		return ""
	}
	dir, err := home()
	if err != nil {
		return ""
	}
	return dir
}

// ConfigDir returns the termhost configuration directory
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigFile returns the config file path used when none is given
func DefaultConfigFile() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
