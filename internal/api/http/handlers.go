package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/api/middleware"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/providers/monitor"
	"github.com/GriffinCanCode/termhost/internal/providers/shell"
	"github.com/GriffinCanCode/termhost/internal/providers/terminal"
	"github.com/GriffinCanCode/termhost/internal/shared/paths"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// Sessions is the interactive session surface the handlers drive
type Sessions interface {
	CreateSession(id types.SessionID) (*types.SessionInfo, error)
	WriteInput(id types.SessionID, data []byte) error
	Resize(id types.SessionID, cols, rows int) error
	CloseSession(id types.SessionID) error
	Get(id types.SessionID) (*types.SessionInfo, error)
	List() []types.SessionInfo
}

// CommandRunner executes one-shot commands
type CommandRunner interface {
	Run(ctx context.Context, family types.ShellFamily, command, workingDir string) (*types.CommandResult, error)
}

// ShellLister reports the shells available on the host
type ShellLister interface {
	Available(ctx context.Context) ([]types.ShellDescriptor, error)
}

// StatsProvider samples host resource usage
type StatsProvider interface {
	Snapshot(ctx context.Context) (*monitor.SystemStats, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions Sessions
	runner   CommandRunner
	shells   ShellLister
	stats    StatsProvider
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	home     func() (string, error)
}

// NewHandlers creates a new handler set
func NewHandlers(
	sessions Sessions,
	runner CommandRunner,
	shells ShellLister,
	stats StatsProvider,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		sessions: sessions,
		runner:   runner,
		shells:   shells,
		stats:    stats,
		metrics:  metrics,
		logger:   logger,
		home:     paths.HomeDir,
	}
}

// Health returns service health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": len(h.sessions.List()),
	})
}

// CreateSession spawns a new interactive session under the requested id
func (h *Handlers) CreateSession(c *gin.Context) {
	var req types.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.sessions.CreateSession(*req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// ListSessions lists all open sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.sessions.List()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession returns one session
func (h *Handlers) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	info, err := h.sessions.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// WriteInput forwards keystrokes to a session
func (h *Handlers) WriteInput(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req types.InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.WriteInput(id, []byte(req.Data)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": id})
}

// ResizeSession changes a session's terminal geometry
func (h *Handlers) ResizeSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req types.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.Resize(id, req.Cols, req.Rows); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": id})
}

// CloseSession terminates a session
func (h *Handlers) CloseSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.sessions.CloseSession(id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": id})
}

// RunCommand executes a one-shot command and returns its combined output
func (h *Handlers) RunCommand(c *gin.Context) {
	var req types.RunCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workingDir := ""
	if req.WorkingDir != nil {
		workingDir = *req.WorkingDir
	}

	result, err := h.runner.Run(c.Request.Context(), types.ParseShellFamily(req.ShellType), req.Command, workingDir)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListShells lists the shells that can be started on this host
func (h *Handlers) ListShells(c *gin.Context) {
	shells, err := h.shells.Available(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shells": shells})
}

// SystemStats reports host CPU, memory and disk usage
func (h *Handlers) SystemStats(c *gin.Context) {
	stats, err := h.stats.Snapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HomeDirectory reports the current user's home directory
func (h *Handlers) HomeDirectory(c *gin.Context) {
	home, err := h.home()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"home": home})
}

func sessionID(c *gin.Context) (types.SessionID, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id: " + c.Param("id")})
		return 0, false
	}
	return types.SessionID(id), true
}

// fail writes err with the status its kind maps to
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, terminal.ErrSessionNotFound),
		errors.Is(err, shell.ErrNoShells),
		errors.Is(err, paths.ErrNoHome):
		return http.StatusNotFound
	case errors.Is(err, terminal.ErrDuplicateSession):
		return http.StatusConflict
	case errors.Is(err, terminal.ErrInvalidSize):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
