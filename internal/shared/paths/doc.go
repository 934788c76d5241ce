// Package paths resolves the filesystem locations termhost depends on.
//
// # Home Directory
//
// The home directory is looked up from the environment the way the desktop
// shell expects it: USERPROFILE first (Windows), then HOME. It is the default
// working directory for one-shot commands.
//
// # Configuration
//
//	$XDG_CONFIG_HOME/termhost/config.yaml
//	$HOME/.config/termhost/config.yaml   (when XDG_CONFIG_HOME is unset)
//
// # Usage
//
//	import "github.com/GriffinCanCode/termhost/internal/shared/paths"
//
//	home, err := paths.HomeDir()
//	dir := paths.ResolveWorkingDir(requested) // requested, else home, else ""
package paths
