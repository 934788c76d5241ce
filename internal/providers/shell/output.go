package shell

import "strings"

// noiseMarker appears in stderr when the console code page is switched
const noiseMarker = "active code page"

// FilterStderr drops empty lines and code-page noise from stderr
func FilterStderr(stderr string) string {
	if stderr == "" {
		return ""
	}

	lines := strings.Split(stderr, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.Contains(strings.ToLower(line), noiseMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Merge joins stdout and filtered stderr with a single line break when both
// are non-empty
func Merge(stdout, stderr string) string {
	switch {
	case stderr == "":
		return stdout
	case stdout == "":
		return stderr
	default:
		return stdout + "\n" + stderr
	}
}
