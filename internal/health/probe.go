// internal/health/probe.go
package health

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lead-enrichment-worker/internal/domain"
	"lead-enrichment-worker/internal/metrics"

	"github.com/robfig/cron/v3"
)

// Probe periodically checks cluster reachability via the gateway
// topology and reflects the result in logs and the connection gauge.
// Reconnection itself is the Zeebe client's business; the probe only
// makes the connection state observable.
type Probe struct {
	checker  domain.TopologyChecker
	cron     *cron.Cron
	cluster  string
	schedule string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewProbe creates a probe for the given cluster host.
func NewProbe(checker domain.TopologyChecker, cluster, schedule string, timeout time.Duration, logger *slog.Logger) *Probe {
	return &Probe{
		checker:  checker,
		cron:     cron.New(),
		cluster:  cluster,
		schedule: schedule,
		timeout:  timeout,
		logger:   logger.With("component", "health-probe"),
	}
}

// Start runs one immediate check, then checks on the configured
// schedule until ctx is cancelled.
func (p *Probe) Start(ctx context.Context) error {
	if _, err := p.cron.AddFunc(p.schedule, p.Check); err != nil {
		return fmt.Errorf("invalid health probe schedule %q: %w", p.schedule, err)
	}

	p.Check()
	p.cron.Start()

	<-ctx.Done()
	stopCtx := p.cron.Stop()
	<-stopCtx.Done()
	return nil
}

// Check performs a single topology probe.
func (p *Probe) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	topology, err := p.checker.CheckTopology(ctx)
	if err != nil {
		metrics.ConnectionUp.WithLabelValues(p.cluster).Set(0)
		p.logger.Warn("cluster topology check failed", "cluster", p.cluster, "error", err)
		return
	}

	metrics.ConnectionUp.WithLabelValues(p.cluster).Set(1)
	p.logger.Info("cluster reachable",
		"cluster", p.cluster,
		"brokers", topology.Brokers,
		"partitions", topology.PartitionCount,
		"gateway_version", topology.GatewayVersion,
	)
}
