//go:build !windows

package shell

import "os/exec"

func configureCmdLine(*exec.Cmd, Invocation) {}
