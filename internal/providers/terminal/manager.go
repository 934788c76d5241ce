package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/providers/shell"
	"github.com/GriffinCanCode/termhost/internal/shared/charset"
	"github.com/GriffinCanCode/termhost/internal/shared/paths"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

const (
	// DefaultCols and DefaultRows are the geometry of a new terminal
	DefaultCols = 80
	DefaultRows = 24

	maxDimension = 65535
	relayTimeout = 5 * time.Second
)

// Config controls how sessions are spawned
type Config struct {
	Shell            string // empty means $SHELL or the platform default
	Cols             int
	Rows             int
	SubscriberBuffer int
	Env              map[string]string
}

// DefaultConfig returns the standard session configuration
func DefaultConfig() Config {
	return Config{
		Cols:             DefaultCols,
		Rows:             DefaultRows,
		SubscriberBuffer: defaultSubscriberBuffer,
	}
}

// Manager owns the session registry and the output fan-out
type Manager struct {
	registry *Registry
	hub      *hub
	resolver *charset.Resolver
	logger   *zap.Logger
	metrics  *monitoring.Metrics

	shellPath string
	family    types.ShellFamily
	cols      int
	rows      int
	env       []string

	relays sync.WaitGroup
}

// NewManager creates a session manager
func NewManager(cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Cols <= 0 {
		cfg.Cols = DefaultCols
	}
	if cfg.Rows <= 0 {
		cfg.Rows = DefaultRows
	}

	path, family := shell.Interactive(runtime.GOOS, cfg.Shell)

	env := []string{"TERM=xterm-256color"}
	for k, v := range cfg.Env {
		env = append(env, k+"="+v)
	}

	return &Manager{
		registry:  NewRegistry(),
		hub:       newHub(cfg.SubscriberBuffer, logger),
		resolver:  charset.Default(),
		logger:    logger,
		shellPath: path,
		family:    family,
		cols:      cfg.Cols,
		rows:      cfg.Rows,
		env:       env,
	}
}

// WithMetrics attaches metrics collection
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	m.hub.metrics = metrics
	return m
}

// Shell returns the executable spawned for new sessions
func (m *Manager) Shell() string {
	return m.shellPath
}

// CreateSession spawns the interactive shell in a new terminal registered under id
func (m *Manager) CreateSession(id types.SessionID) (*types.SessionInfo, error) {
	if m.registry.Contains(id) {
		m.metrics.RecordSessionError("create", "duplicate")
		return nil, fmt.Errorf("%w: %d", ErrDuplicateSession, id)
	}

	s, err := m.spawn(id)
	if err != nil {
		m.metrics.RecordSessionError("create", errorType(err))
		m.logger.Error("Failed to create session",
			zap.Uint32("session_id", uint32(id)),
			zap.String("shell", m.shellPath),
			zap.Error(err))
		return nil, err
	}

	// another caller may have claimed the id while the shell was starting
	if err := m.registry.Insert(id, s); err != nil {
		s.terminate()
		go m.reapOrphan(s)
		m.metrics.RecordSessionError("create", "duplicate")
		return nil, err
	}

	info := s.info()
	m.relays.Add(1)
	go m.relay(s)

	m.metrics.IncSessionsCreated()
	m.metrics.SetSessionsActive(m.registry.Len())
	m.logger.Info("Session created",
		zap.Uint32("session_id", uint32(id)),
		zap.String("shell", s.Shell),
		zap.Int("pid", info.PID))

	return &info, nil
}

// reapOrphan waits for a shell that lost the insert race and was never registered
func (m *Manager) reapOrphan(s *Session) {
	err := s.cmd.Wait()
	m.logger.Debug("Reaped unregistered shell",
		zap.Uint32("session_id", uint32(s.ID)),
		zap.Int("exit_code", s.cmd.ProcessState.ExitCode()),
		zap.Error(err))
}

func (m *Manager) spawn(id types.SessionID) (*Session, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPtyAllocation, err)
	}
	// the child holds its own copy of the subordinate end after Start
	defer tty.Close()

	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(m.cols), Rows: uint16(m.rows)}); err != nil {
		ptmx.Close()
		return nil, fmt.Errorf("%w: set size: %v", ErrPtyAllocation, err)
	}

	cmd := exec.Command(m.shellPath)
	cmd.Env = append(os.Environ(), m.env...)
	cmd.Dir = paths.ResolveWorkingDir("")
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Start(); err != nil {
		ptmx.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawnFailure, m.shellPath, err)
	}

	return &Session{
		ID:        id,
		Shell:     m.shellPath,
		Family:    m.family,
		StartedAt: time.Now(),
		cols:      m.cols,
		rows:      m.rows,
		cmd:       cmd,
		ptmx:      ptmx,
		done:      make(chan struct{}),
	}, nil
}

// WriteInput forwards raw bytes to the session's terminal. The registry lock
// is released before writing, so a shell that stops reading stalls only its
// own writers. CloseSession releases them.
func (m *Manager) WriteInput(id types.SessionID, data []byte) error {
	s, err := m.registry.Lookup(id)
	if err == nil {
		if werr := s.write(data); werr != nil {
			err = fmt.Errorf("write input: %w", werr)
		}
	}
	if err != nil {
		m.metrics.RecordSessionError("write", errorType(err))
	}
	return err
}

// Resize changes the terminal geometry
func (m *Manager) Resize(id types.SessionID, cols, rows int) error {
	if cols <= 0 || rows <= 0 || cols > maxDimension || rows > maxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}

	s, err := m.registry.Lookup(id)
	if err == nil {
		if rerr := s.resize(cols, rows); rerr != nil {
			err = fmt.Errorf("resize: %w", rerr)
		}
	}
	if err != nil {
		m.metrics.RecordSessionError("resize", errorType(err))
		return err
	}

	m.logger.Debug("Session resized",
		zap.Uint32("session_id", uint32(id)),
		zap.Int("cols", cols),
		zap.Int("rows", rows))
	return nil
}

// CloseSession removes the session, kills its shell and releases the terminal
func (m *Manager) CloseSession(id types.SessionID) error {
	s, err := m.registry.Remove(id)
	if err != nil {
		m.metrics.RecordSessionError("close", errorType(err))
		return err
	}

	s.terminate()

	m.metrics.IncSessionsClosed()
	m.metrics.SetSessionsActive(m.registry.Len())
	m.logger.Info("Session closed", zap.Uint32("session_id", uint32(id)))
	return nil
}

// Get returns the info of one session
func (m *Manager) Get(id types.SessionID) (*types.SessionInfo, error) {
	s, err := m.registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	info := s.info()
	return &info, nil
}

// Done returns a channel closed when the session's shell has exited and
// been reaped. The session stays registered until CloseSession.
func (m *Manager) Done(id types.SessionID) (<-chan struct{}, error) {
	s, err := m.registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	return s.done, nil
}

// List returns every open session ordered by id
func (m *Manager) List() []types.SessionInfo {
	return m.registry.Snapshot()
}

// Subscribe registers for output events of all sessions. The returned
// function ends the subscription and closes the channel.
func (m *Manager) Subscribe() (<-chan types.OutputEvent, func()) {
	return m.hub.subscribe()
}

// Subscribers returns the number of active subscriptions
func (m *Manager) Subscribers() int {
	return m.hub.count()
}

// Shutdown closes every session and ends all subscriptions
func (m *Manager) Shutdown() {
	sessions := m.registry.Drain()
	for _, s := range sessions {
		s.terminate()
		m.metrics.IncSessionsClosed()
	}
	m.metrics.SetSessionsActive(0)

	done := make(chan struct{})
	go func() {
		m.relays.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(relayTimeout):
		m.logger.Warn("Timed out waiting for session relays to finish")
	}

	m.hub.close()
	m.logger.Info("Session manager shut down", zap.Int("sessions_closed", len(sessions)))
}
