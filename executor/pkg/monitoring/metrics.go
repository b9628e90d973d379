package monitoring

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/smartcontractkit/chainlink-common/pkg/beholder"
	"github.com/smartcontractkit/chainlink-common/pkg/metrics"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
)

const (
	requestExecutionLatencyName = "executor_request_execution_duration_seconds"
	resolverIterationsName      = "executor_resolver_iterations"
)

// ExecutorMetrics provides all metrics for the executor.
type ExecutorMetrics struct {
	// Latency
	requestExecutionLatency metric.Float64Histogram
	resolverIterations      metric.Int64Histogram

	// Request processing counters
	requestsProcessedCounter        metric.Int64Counter
	requestsProcessingErrorsCounter metric.Int64Counter
	unsupportedRequestsCounter      metric.Int64Counter
	requestExpiryCounter            metric.Int64Counter
	requestHeapSizeGauge            metric.Int64Gauge
}

// InitMetrics initializes all executor metrics.
func InitMetrics() (*ExecutorMetrics, error) {
	em := &ExecutorMetrics{}
	var err error

	em.requestExecutionLatency, err = beholder.GetMeter().Float64Histogram(
		requestExecutionLatencyName,
		metric.WithDescription("Latency from request intake to a submitted destination transaction"),
		metric.WithUnit("seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register request execution latency histogram: %w", err)
	}

	em.resolverIterations, err = beholder.GetMeter().Int64Histogram(
		resolverIterationsName,
		metric.WithDescription("Number of resolver calls needed to resolve a request"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register resolver iterations histogram: %w", err)
	}

	em.requestsProcessedCounter, err = beholder.GetMeter().Int64Counter(
		"executor_requests_processed_total",
		metric.WithDescription("Total number of requests whose instructions were submitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register requests processed counter: %w", err)
	}

	em.requestsProcessingErrorsCounter, err = beholder.GetMeter().Int64Counter(
		"executor_requests_processing_errors_total",
		metric.WithDescription("Total number of failed request processing attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register requests processing errors counter: %w", err)
	}

	em.unsupportedRequestsCounter, err = beholder.GetMeter().Int64Counter(
		"executor_unsupported_requests_total",
		metric.WithDescription("Total number of requests of a type this executor does not relay"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register unsupported requests counter: %w", err)
	}

	em.requestExpiryCounter, err = beholder.GetMeter().Int64Counter(
		"executor_request_expiry_total",
		metric.WithDescription("Total number of requests expired before they could be executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register request expiry counter: %w", err)
	}

	em.requestHeapSizeGauge, err = beholder.GetMeter().Int64Gauge(
		"executor_request_heap_size",
		metric.WithDescription("Current number of requests waiting for their turn"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register request heap size gauge: %w", err)
	}

	return em, nil
}

// MetricViews defines histogram bucket boundaries for executor metrics.
func MetricViews() []sdkmetric.View {
	return []sdkmetric.View{
		sdkmetric.NewView(
			sdkmetric.Instrument{Name: requestExecutionLatencyName},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: []float64{1, 2, 5, 10, 15, 30, 60, 120, 180, 300, 600, 900, 1200},
			}},
		),
		sdkmetric.NewView(
			sdkmetric.Instrument{Name: resolverIterationsName},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: []float64{1, 2, 3, 4, 5},
			}},
		),
	}
}

var _ executor.MetricLabeler = (*ExecutorMetricLabeler)(nil)

// ExecutorMetricLabeler wraps ExecutorMetrics with label support.
type ExecutorMetricLabeler struct {
	metrics.Labeler
	em *ExecutorMetrics
}

func NewExecutorMetricLabeler(labeler metrics.Labeler, em *ExecutorMetrics) executor.MetricLabeler {
	return &ExecutorMetricLabeler{
		Labeler: labeler,
		em:      em,
	}
}

func (v *ExecutorMetricLabeler) With(keyValues ...string) executor.MetricLabeler {
	return &ExecutorMetricLabeler{v.Labeler.With(keyValues...), v.em}
}

func (v *ExecutorMetricLabeler) RecordRequestExecutionLatency(ctx context.Context, duration time.Duration) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.em.requestExecutionLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(otelLabels...))
}

func (v *ExecutorMetricLabeler) RecordResolverIterations(ctx context.Context, iterations int) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.em.resolverIterations.Record(ctx, int64(iterations), metric.WithAttributes(otelLabels...))
}

func (v *ExecutorMetricLabeler) IncrementRequestsProcessed(ctx context.Context) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.em.requestsProcessedCounter.Add(ctx, 1, metric.WithAttributes(otelLabels...))
}

func (v *ExecutorMetricLabeler) IncrementRequestsProcessingFailed(ctx context.Context) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.em.requestsProcessingErrorsCounter.Add(ctx, 1, metric.WithAttributes(otelLabels...))
}

func (v *ExecutorMetricLabeler) IncrementUnsupportedRequests(ctx context.Context) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.em.unsupportedRequestsCounter.Add(ctx, 1, metric.WithAttributes(otelLabels...))
}

func (v *ExecutorMetricLabeler) IncrementExpiredRequests(ctx context.Context) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.em.requestExpiryCounter.Add(ctx, 1, metric.WithAttributes(otelLabels...))
}

func (v *ExecutorMetricLabeler) RecordRequestHeapSize(ctx context.Context, size int64) {
	otelLabels := beholder.OtelAttributes(v.Labels).AsStringAttributes()
	v.em.requestHeapSizeGauge.Record(ctx, size, metric.WithAttributes(otelLabels...))
}
