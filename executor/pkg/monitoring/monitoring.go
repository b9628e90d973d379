package monitoring

import (
	"fmt"

	"github.com/smartcontractkit/chainlink-common/pkg/metrics"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
)

var _ executor.Monitoring = (*ExecutorBeholderMonitoring)(nil)

// ExecutorBeholderMonitoring provides beholder-based monitoring for the executor.
type ExecutorBeholderMonitoring struct {
	metrics executor.MetricLabeler
}

// InitMonitoring registers the executor metrics on the global beholder meter. The beholder client
// must be set before calling it for the metrics to be exported.
func InitMonitoring() (executor.Monitoring, error) {
	executorMetrics, err := InitMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize executor metrics: %w", err)
	}

	return &ExecutorBeholderMonitoring{
		metrics: NewExecutorMetricLabeler(metrics.NewLabeler(), executorMetrics),
	}, nil
}

func (v *ExecutorBeholderMonitoring) Metrics() executor.MetricLabeler {
	return v.metrics
}
