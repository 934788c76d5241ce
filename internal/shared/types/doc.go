// Package types provides shared data structures for the termhost backend.
//
// This package defines the types that cross package boundaries: the shell
// family enumeration consulted by both the encoding resolver and the command
// builder, session identity and output events, and the request/response
// shapes used by the HTTP and WebSocket layers.
//
// Core Types:
//   - ShellFamily: Closed enumeration of supported shells
//   - ShellDescriptor: An available shell (name, path, family)
//   - SessionID: Caller-chosen identifier of one interactive session
//   - OutputEvent: One decoded chunk of session output
//   - CommandResult: Combined text of a one-shot command
//
// Request Types:
//   - CreateSessionRequest, InputRequest, ResizeRequest: Session control
//   - RunCommandRequest: One-shot execution
//   - WSMessage: WebSocket communication
//
// Example Usage:
//
//	family := types.ParseShellFamily("PowerShell")
//	if family.IsWindowsConsole() {
//	    // switch code page before running
//	}
package types
