// Package telemetry pushes periodic system statistics to websocket
// subscribers. Pushes are best effort: slow or gone clients are skipped,
// never waited on.
package telemetry

import (
	"context"

	"github.com/Djnirds1984/Hybrid-Router/internal/executor"
)

// NetworkStats are cumulative byte counters.
type NetworkStats struct {
	Rx int64 `json:"rx"`
	Tx int64 `json:"tx"`
}

// Stats is one telemetry sample.
type Stats struct {
	CPU     float64      `json:"cpu"`
	Memory  float64      `json:"memory"`
	Network NetworkStats `json:"network"`
}

// Sampler produces one telemetry sample per call.
type Sampler interface {
	Sample(ctx context.Context) (Stats, error)
}

// ExecutorSampler reads resource usage through the executor bridge and
// flattens it into the broadcast shape.
type ExecutorSampler struct {
	exec executor.Executor
}

// NewExecutorSampler creates a sampler over an executor.
func NewExecutorSampler(exec executor.Executor) *ExecutorSampler {
	return &ExecutorSampler{exec: exec}
}

// Sample invokes the system helper and maps its resource document.
func (s *ExecutorSampler) Sample(ctx context.Context) (Stats, error) {
	result, err := s.exec.Invoke(ctx, "system", "resource_usage", nil)
	if err != nil {
		return Stats{}, err
	}

	var doc struct {
		CPUPercent float64 `json:"cpu_percent"`
		Memory     struct {
			Percent float64 `json:"percent"`
		} `json:"memory"`
		Network struct {
			BytesSent int64 `json:"bytes_sent"`
			BytesRecv int64 `json:"bytes_recv"`
		} `json:"network"`
	}
	if err := result.Decode(&doc); err != nil {
		return Stats{}, err
	}

	return Stats{
		CPU:    doc.CPUPercent,
		Memory: doc.Memory.Percent,
		Network: NetworkStats{
			Rx: doc.Network.BytesRecv,
			Tx: doc.Network.BytesSent,
		},
	}, nil
}
