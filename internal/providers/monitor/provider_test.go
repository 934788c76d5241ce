package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSnapshot(t *testing.T) {
	p := NewProvider(zaptest.NewLogger(t)).WithSampleInterval(0)

	stats, err := p.Snapshot(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, stats.CPU, 0.0)
	assert.LessOrEqual(t, stats.CPU, 100.0)
	assert.Greater(t, stats.Memory, 0.0)
	assert.LessOrEqual(t, stats.Memory, 100.0)
	assert.GreaterOrEqual(t, stats.CPUCores.Max+1e-9, stats.CPU)
	assert.Positive(t, stats.Cores)
	assert.Positive(t, stats.Goroutines)
	assert.NotZero(t, stats.Details.Total)
	assert.NotZero(t, stats.Timestamp)
}

func TestSummarizeCores(t *testing.T) {
	tests := []struct {
		name     string
		percents []float64
		mean     float64
		cores    CoreStats
	}{
		{"no samples", nil, 0, CoreStats{}},
		{"single core", []float64{37.5}, 37.5, CoreStats{Max: 37.5}},
		{"uniform", []float64{20, 20, 20, 20}, 20, CoreStats{Max: 20}},
		{"mean of cores", []float64{10, 30, 50, 70}, 40, CoreStats{Max: 70, StdDev: 25.819888974716115}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, cores := summarizeCores(tt.percents)
			assert.InDelta(t, tt.mean, mean, 1e-9)
			assert.InDelta(t, tt.cores.Max, cores.Max, 1e-9)
			assert.InDelta(t, tt.cores.StdDev, cores.StdDev, 1e-9)
		})
	}
}
