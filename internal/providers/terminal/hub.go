package terminal

import (
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

const defaultSubscriberBuffer = 1024

// hub fans output events out to subscribers. A subscriber whose buffer is
// full misses the event; delivered events keep their per-session order.
type hub struct {
	mu      sync.RWMutex
	subs    map[chan types.OutputEvent]struct{}
	buffer  int
	closed  bool
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

func newHub(buffer int, logger *zap.Logger) *hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &hub{
		subs:   make(map[chan types.OutputEvent]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

func (h *hub) subscribe() (<-chan types.OutputEvent, func()) {
	ch := make(chan types.OutputEvent, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

func (h *hub) publish(ev types.OutputEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.metrics.IncEventsDropped()
			h.logger.Debug("Subscriber full, dropping output event",
				zap.Uint32("session_id", uint32(ev.SessionID)),
				zap.Int("bytes", len(ev.Data)))
		}
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// close ends every subscription; later publishes are ignored
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
