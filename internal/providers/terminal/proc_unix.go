//go:build !windows

package terminal

import "syscall"

// The shell leads a new session with the subordinate end as its controlling terminal
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}
}
