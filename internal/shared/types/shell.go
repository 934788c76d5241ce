package types

import "strings"

// ShellFamily identifies a family of shells sharing quoting and encoding rules
type ShellFamily int

const (
	FamilyOther ShellFamily = iota
	FamilyPowerShell
	FamilyCmd
	FamilyBash
	FamilyZsh
)

// ShellFamilies lists every family, FamilyOther last
var ShellFamilies = []ShellFamily{
	FamilyPowerShell,
	FamilyCmd,
	FamilyBash,
	FamilyZsh,
	FamilyOther,
}

// ParseShellFamily maps a wire tag to a family. Unknown tags map to FamilyOther.
func ParseShellFamily(tag string) ShellFamily {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "powershell", "pwsh":
		return FamilyPowerShell
	case "cmd":
		return FamilyCmd
	case "bash":
		return FamilyBash
	case "zsh":
		return FamilyZsh
	default:
		return FamilyOther
	}
}

// String returns the wire tag
func (f ShellFamily) String() string {
	switch f {
	case FamilyPowerShell:
		return "powershell"
	case FamilyCmd:
		return "cmd"
	case FamilyBash:
		return "bash"
	case FamilyZsh:
		return "zsh"
	default:
		return "other"
	}
}

// IsWindowsConsole reports whether the family runs on the Windows console subsystem
func (f ShellFamily) IsWindowsConsole() bool {
	return f == FamilyPowerShell || f == FamilyCmd
}

// MarshalText implements encoding.TextMarshaler
func (f ShellFamily) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *ShellFamily) UnmarshalText(text []byte) error {
	*f = ParseShellFamily(string(text))
	return nil
}

// ShellDescriptor describes an available shell
type ShellDescriptor struct {
	Name   string      `json:"name" yaml:"name" toml:"name"`
	Path   string      `json:"path" yaml:"path" toml:"path"`
	Family ShellFamily `json:"shell_type" yaml:"shell_type" toml:"shell_type"`
}
