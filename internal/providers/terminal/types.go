package terminal

import (
	"errors"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creack/pty"

	"github.com/GriffinCanCode/termhost/internal/providers/shell"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

var (
	// ErrSessionNotFound is returned for any operation on an id that is not open
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateSession is returned when creating an id that is already open
	ErrDuplicateSession = errors.New("session already exists")

	// ErrPtyAllocation is returned when the OS cannot provide a pseudo-terminal
	ErrPtyAllocation = errors.New("pty allocation failure")

	// ErrSpawnFailure is returned when the shell process cannot be started
	ErrSpawnFailure = shell.ErrSpawnFailure

	// ErrInvalidSize is returned for a zero or out-of-range geometry
	ErrInvalidSize = errors.New("invalid terminal size")
)

// Session is the live resource bundle of one open session.
// Terminal I/O runs under the session's own locks, never the registry's.
type Session struct {
	ID        types.SessionID
	Shell     string
	Family    types.ShellFamily
	StartedAt time.Time

	mu   sync.Mutex // guards cols, rows and resize
	cols int
	rows int

	inputMu sync.Mutex // keeps writes to one session in issue order

	cmd  *exec.Cmd
	ptmx *os.File // controlling end: input, output and resize

	exited atomic.Bool
	done   chan struct{} // closed once the shell has been reaped
}

// write blocks while the shell is not draining its input. Closing ptmx in
// terminate releases a pending write.
func (s *Session) write(p []byte) error {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()

	for len(p) > 0 {
		n, err := s.ptmx.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (s *Session) resize(cols, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := pty.Setsize(s.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}); err != nil {
		return err
	}
	s.cols = cols
	s.rows = rows
	return nil
}

// terminate kills the shell and closes the controlling end. Reaping is left
// to the relay.
func (s *Session) terminate() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	if s.ptmx != nil {
		_ = s.ptmx.Close()
	}
}

func (s *Session) info() types.SessionInfo {
	pid := 0
	if s.cmd != nil && s.cmd.Process != nil {
		pid = s.cmd.Process.Pid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.SessionInfo{
		ID:        s.ID,
		Shell:     s.Shell,
		PID:       pid,
		Cols:      s.cols,
		Rows:      s.rows,
		StartedAt: s.StartedAt,
		Exited:    s.exited.Load(),
	}
}
