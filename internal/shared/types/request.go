package types

// CreateSessionRequest asks for a new interactive session
type CreateSessionRequest struct {
	ID *SessionID `json:"id" binding:"required"`
}

// InputRequest carries raw keystroke data for a session
type InputRequest struct {
	Data string `json:"data"`
}

// ResizeRequest carries a new terminal geometry
type ResizeRequest struct {
	Cols int `json:"cols" binding:"required,min=1,max=65535"`
	Rows int `json:"rows" binding:"required,min=1,max=65535"`
}

// RunCommandRequest represents a one-shot execution request
type RunCommandRequest struct {
	ShellType  string  `json:"shell_type"`
	Command    string  `json:"command" binding:"required"`
	WorkingDir *string `json:"working_dir,omitempty"`
}

// WSMessage represents a WebSocket message in either direction
type WSMessage struct {
	Type      string    `json:"type"`
	SessionID SessionID `json:"session_id"`
	Data      string    `json:"data,omitempty"`
	Cols      int       `json:"cols,omitempty"`
	Rows      int       `json:"rows,omitempty"`
	Message   string    `json:"message,omitempty"`
}
