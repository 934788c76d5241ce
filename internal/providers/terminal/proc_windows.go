//go:build windows

package terminal

import "syscall"

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}
