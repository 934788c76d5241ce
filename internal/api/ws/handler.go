package ws

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = pongWait * 9 / 10
	maxReadSize = 1 << 20
	replyBuffer = 16
)

// Message types
const (
	TypeOutput = "output"
	TypeInput  = "input"
	TypeResize = "resize"
	TypePing   = "ping"
	TypePong   = "pong"
	TypeError  = "error"
	TypeSystem = "system"
)

// Sessions is the session surface a stream needs
type Sessions interface {
	Subscribe() (<-chan types.OutputEvent, func())
	WriteInput(id types.SessionID, data []byte) error
	Resize(id types.SessionID, cols, rows int) error
}

// Handler manages WebSocket connections
type Handler struct {
	sessions Sessions
	upgrader websocket.Upgrader
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler. checkOrigin may be nil to
// accept only requests without a cross-origin Origin header.
func NewHandler(sessions Sessions, checkOrigin func(origin string) bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if checkOrigin == nil {
					return false
				}
				return checkOrigin(origin)
			},
		},
		logger: logger,
	}
}

// WithMetrics attaches metrics collection
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection upgrades the request and streams session output until the
// client goes away. ?session_id=N restricts output to one session.
func (h *Handler) HandleConnection(c *gin.Context) {
	filter, hasFilter, err := parseFilter(c.Query("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	s := &stream{
		id:        uuid.NewString(),
		conn:      conn,
		handler:   h,
		replies:   make(chan types.WSMessage, replyBuffer),
		done:      make(chan struct{}),
		filter:    filter,
		hasFilter: hasFilter,
	}
	s.logger = h.logger.With(zap.String("conn_id", s.id))
	s.run()
}

func parseFilter(raw string) (types.SessionID, bool, error) {
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false, errors.New("invalid session_id filter: " + raw)
	}
	return types.SessionID(id), true, nil
}

// stream is one client connection. Only the writer goroutine writes to conn.
type stream struct {
	id      string
	conn    *websocket.Conn
	handler *Handler
	logger  *zap.Logger

	replies chan types.WSMessage
	done    chan struct{}
	once    sync.Once

	filter    types.SessionID
	hasFilter bool
}

func (s *stream) run() {
	metrics := s.handler.metrics
	metrics.IncWSConnections()
	defer metrics.DecWSConnections()

	events, unsubscribe := s.handler.sessions.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeLoop(events)
	}()

	s.logger.Info("Stream connected")
	s.reply(types.WSMessage{Type: TypeSystem, Message: "connected"})
	s.readLoop()

	unsubscribe()
	s.close()
	wg.Wait()
	s.conn.Close()
	s.logger.Info("Stream disconnected")
}

func (s *stream) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *stream) readLoop() {
	s.conn.SetReadLimit(maxReadSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			s.reply(types.WSMessage{Type: TypeError, Message: "malformed message: " + err.Error()})
			continue
		}
		s.handler.metrics.RecordWSMessage("in", msg.Type)
		s.dispatch(msg)
	}
}

func (s *stream) dispatch(msg types.WSMessage) {
	switch msg.Type {
	case TypeInput:
		if err := s.handler.sessions.WriteInput(msg.SessionID, []byte(msg.Data)); err != nil {
			s.replyError(msg.SessionID, err)
		}
	case TypeResize:
		if err := s.handler.sessions.Resize(msg.SessionID, msg.Cols, msg.Rows); err != nil {
			s.replyError(msg.SessionID, err)
		}
	case TypePing:
		s.reply(types.WSMessage{Type: TypePong})
	default:
		s.reply(types.WSMessage{Type: TypeError, Message: "unknown message type: " + msg.Type})
	}
}

func (s *stream) replyError(id types.SessionID, err error) {
	s.reply(types.WSMessage{Type: TypeError, SessionID: id, Message: err.Error()})
}

// reply queues a control frame; it never blocks the read loop for long
func (s *stream) reply(msg types.WSMessage) {
	select {
	case s.replies <- msg:
	case <-s.done:
	case <-time.After(writeWait):
		s.logger.Warn("Dropping reply, writer stalled", zap.String("type", msg.Type))
	}
}

func (s *stream) writeLoop(events <-chan types.OutputEvent) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				s.closeWith(websocket.CloseGoingAway, "server shutting down")
				return
			}
			if s.hasFilter && ev.SessionID != s.filter {
				continue
			}
			if !s.send(types.WSMessage{Type: TypeOutput, SessionID: ev.SessionID, Data: ev.Data}) {
				return
			}
		case msg := <-s.replies:
			if !s.send(msg) {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.abort(err)
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *stream) send(msg types.WSMessage) bool {
	data, err := sonic.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to encode frame", zap.String("type", msg.Type), zap.Error(err))
		return true
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.abort(err)
		return false
	}
	s.handler.metrics.RecordWSMessage("out", msg.Type)
	return true
}

// abort unblocks the read loop after a write failure
func (s *stream) abort(err error) {
	s.logger.Debug("WebSocket write failed", zap.Error(err))
	s.close()
	s.conn.Close()
}

func (s *stream) closeWith(code int, reason string) {
	deadline := time.Now().Add(writeWait)
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	s.close()
	s.conn.Close()
}
