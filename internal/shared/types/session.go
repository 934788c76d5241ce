package types

import "time"

// SessionID identifies one interactive session. It is chosen by the caller and
// may be reused once the session holding it has been closed.
type SessionID uint32

// OutputEvent is one decoded chunk read from a session's terminal
type OutputEvent struct {
	SessionID SessionID `json:"session_id"`
	Data      string    `json:"data"`
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID        SessionID `json:"id"`
	Shell     string    `json:"shell"`
	PID       int       `json:"pid"`
	Cols      int       `json:"cols"`
	Rows      int       `json:"rows"`
	StartedAt time.Time `json:"started_at"`
	Exited    bool      `json:"exited"`
}

// CommandResult is the combined output of a one-shot command.
//
// The child's exit status is deliberately not part of the result: callers
// that need success/failure signaling cannot get it from here.
type CommandResult struct {
	Output string `json:"output"`
}
