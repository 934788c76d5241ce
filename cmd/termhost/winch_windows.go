//go:build windows

package main

// Windows consoles have no resize signal and sessions cannot be attached there
func watchResize(func(cols, rows int)) (stop func()) {
	return func() {}
}
