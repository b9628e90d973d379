package monitoring

import (
	"context"
	"time"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
)

var _ executor.Monitoring = (*NoopExecutorMonitoring)(nil)

// NoopExecutorMonitoring provides a no-op implementation of executor.Monitoring.
type NoopExecutorMonitoring struct {
	noop executor.MetricLabeler
}

func NewNoopExecutorMonitoring() executor.Monitoring {
	return &NoopExecutorMonitoring{noop: NewNoopExecutorMetricLabeler()}
}

func (n *NoopExecutorMonitoring) Metrics() executor.MetricLabeler {
	return n.noop
}

var _ executor.MetricLabeler = (*NoopExecutorMetricLabeler)(nil)

type NoopExecutorMetricLabeler struct{}

func NewNoopExecutorMetricLabeler() executor.MetricLabeler {
	return &NoopExecutorMetricLabeler{}
}

func (n *NoopExecutorMetricLabeler) With(keyValues ...string) executor.MetricLabeler {
	return n
}

func (n *NoopExecutorMetricLabeler) RecordRequestExecutionLatency(ctx context.Context, duration time.Duration) {
}

func (n *NoopExecutorMetricLabeler) RecordResolverIterations(ctx context.Context, iterations int) {}

func (n *NoopExecutorMetricLabeler) IncrementRequestsProcessed(ctx context.Context) {}

func (n *NoopExecutorMetricLabeler) IncrementRequestsProcessingFailed(ctx context.Context) {}

func (n *NoopExecutorMetricLabeler) IncrementUnsupportedRequests(ctx context.Context) {}

func (n *NoopExecutorMetricLabeler) IncrementExpiredRequests(ctx context.Context) {}

func (n *NoopExecutorMetricLabeler) RecordRequestHeapSize(ctx context.Context, size int64) {}
