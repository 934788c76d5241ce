package terminal

import (
	"errors"
	"io"
	"os"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/shared/charset"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

const relayChunk = 4096

// relay copies terminal output to subscribers until the stream ends, then
// reaps the shell. The registry entry is left alone.
func (m *Manager) relay(s *Session) {
	defer m.relays.Done()

	logger := m.logger.With(zap.Uint32("session_id", uint32(s.ID)))
	dec := charset.NewStreamDecoder(m.resolver, s.Family)
	buf := make([]byte, relayChunk)

	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			m.metrics.AddRelayBytes(n)
			if text := dec.Decode(buf[:n]); text != "" {
				m.hub.publish(types.OutputEvent{SessionID: s.ID, Data: text})
			}
		}
		if err != nil {
			if endOfStream(err) {
				logger.Debug("Session output stream ended", zap.Error(err))
			} else {
				logger.Warn("Session output read failed", zap.Error(err))
			}
			break
		}
	}

	if tail := dec.Flush(); tail != "" {
		m.hub.publish(types.OutputEvent{SessionID: s.ID, Data: tail})
	}
	s.exited.Store(true)

	_ = s.cmd.Wait()
	close(s.done)
	logger.Info("Shell exited", zap.Int("exit_code", s.cmd.ProcessState.ExitCode()))
}

// EIO is what Linux returns once the last subordinate descriptor is closed
func endOfStream(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.EIO)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateSession):
		return "duplicate"
	case errors.Is(err, ErrPtyAllocation):
		return "pty_allocation"
	case errors.Is(err, ErrSpawnFailure):
		return "spawn"
	case errors.Is(err, ErrInvalidSize):
		return "invalid_size"
	default:
		return "io"
	}
}
