//go:build windows

package shell

import (
	"os/exec"
	"syscall"
)

func configureCmdLine(cmd *exec.Cmd, inv Invocation) {
	if inv.CmdLine == "" {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CmdLine = inv.CmdLine
}
