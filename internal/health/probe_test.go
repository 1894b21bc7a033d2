package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"lead-enrichment-worker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	calls atomic.Int64
	err   error
}

func (c *fakeChecker) CheckTopology(ctx context.Context) (*domain.Topology, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &domain.Topology{ClusterSize: 3, PartitionCount: 2, Brokers: 3, GatewayVersion: "8.4.5"}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckSurvivesFailure(t *testing.T) {
	checker := &fakeChecker{err: errors.New("unreachable")}
	probe := NewProbe(checker, "test-cluster", "@every 1m", time.Second, testLogger())

	probe.Check()
	probe.Check()
	assert.Equal(t, int64(2), checker.calls.Load())
}

func TestStartRunsImmediateCheckAndStops(t *testing.T) {
	checker := &fakeChecker{}
	probe := NewProbe(checker, "test-cluster", "@every 1h", time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- probe.Start(ctx) }()

	require.Eventually(t, func() bool {
		return checker.calls.Load() >= 1
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	probe := NewProbe(&fakeChecker{}, "test-cluster", "not a schedule", time.Second, testLogger())
	err := probe.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid health probe schedule")
}
