package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djnirds1984/Hybrid-Router/internal/executor"
)

func TestExecutorSamplerMapsUsage(t *testing.T) {
	fake := executor.NewFake()
	fake.Respond("system", "resource_usage", `{
		"cpu_percent": 42.5,
		"memory": {"total": 8192, "available": 4096, "used": 4096, "percent": 50.0},
		"disk": {"total": 100, "used": 30, "free": 70, "percent": 30.0},
		"network": {"bytes_sent": 1234, "bytes_recv": 5678}
	}`)

	sampler := NewExecutorSampler(fake)
	stats, err := sampler.Sample(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42.5, stats.CPU)
	assert.Equal(t, 50.0, stats.Memory)
	assert.Equal(t, int64(5678), stats.Network.Rx)
	assert.Equal(t, int64(1234), stats.Network.Tx)
}

func TestExecutorSamplerPropagatesError(t *testing.T) {
	fake := executor.NewFake()
	fake.Fail("system", "resource_usage", executor.ErrProcessFailed)

	sampler := NewExecutorSampler(fake)
	_, err := sampler.Sample(context.Background())
	assert.Error(t, err)
}
