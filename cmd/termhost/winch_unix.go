//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// watchResize calls fn with the new size whenever the terminal is resized
func watchResize(fn func(cols, rows int)) (stop func()) {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGWINCH)

	go func() {
		for range sigCh {
			if cols, rows, err := currentSize(); err == nil {
				fn(cols, rows)
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
}
