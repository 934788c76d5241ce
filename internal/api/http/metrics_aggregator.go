package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/providers/monitor"
)

// MetricsAggregator combines request, session and host metrics into one document
type MetricsAggregator struct {
	metrics  *monitoring.Metrics
	sessions Sessions
	stats    StatsProvider
}

// NewMetricsAggregator creates a metrics aggregator
func NewMetricsAggregator(metrics *monitoring.Metrics, sessions Sessions, stats StatsProvider) *MetricsAggregator {
	return &MetricsAggregator{
		metrics:  metrics,
		sessions: sessions,
		stats:    stats,
	}
}

// MetricsSnapshot represents a snapshot of all metrics
type MetricsSnapshot struct {
	Timestamp time.Time                  `json:"timestamp"`
	Backend   monitoring.MetricsSnapshot `json:"backend"`
	Sessions  int                        `json:"sessions"`
	System    *monitor.SystemStats       `json:"system,omitempty"`
	Summary   MetricsSummary             `json:"summary"`
}

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests     int64   `json:"total_requests"`
	AverageLatencyMs  float64 `json:"average_latency_ms"`
	ErrorRate         float64 `json:"error_rate"`
	ActiveConnections int     `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// GetAggregatedMetrics returns all metrics as JSON. Host telemetry is omitted
// when it cannot be sampled.
func (ma *MetricsAggregator) GetAggregatedMetrics(c *gin.Context) {
	backend := ma.metrics.Snapshot()

	snapshot := MetricsSnapshot{
		Timestamp: time.Now(),
		Backend:   backend,
		Sessions:  len(ma.sessions.List()),
		Summary:   summarize(backend),
	}
	if ma.stats != nil {
		if stats, err := ma.stats.Snapshot(c.Request.Context()); err == nil {
			snapshot.System = stats
		}
	}

	c.JSON(http.StatusOK, snapshot)
}

func summarize(snapshot monitoring.MetricsSnapshot) MetricsSummary {
	var errorRate float64
	if snapshot.TotalRequests > 0 {
		errorRate = float64(snapshot.TotalErrors) / float64(snapshot.TotalRequests)
	}

	return MetricsSummary{
		TotalRequests:     snapshot.TotalRequests,
		AverageLatencyMs:  snapshot.AvgLatencySeconds * 1000,
		ErrorRate:         errorRate,
		ActiveConnections: int(snapshot.ActiveConnections),
		UptimeSeconds:     snapshot.UptimeSeconds,
	}
}
