package client

import (
	"context"
	"errors"
	"strconv"
	"time"

	domainerrors "wilddocs/internal/domain/errors/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	RequestCounterName           = "wilddocs.client.requests"
	RequestDurationHistogramName = "wilddocs.client.request.duration"
)

// Attribute keys.
const (
	AttrEndpoint   = "endpoint"
	AttrMethod     = "method"
	AttrStatusCode = "status_code"
	AttrOutcome    = "outcome"
)

// Request outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
	OutcomeTransport   = "transport_error"
	OutcomeRejected    = "rejected"
)

const meterName = "wilddocs/client"

// getRequestLatencyBuckets returns bucket boundaries for backend calls. Queries
// run a language model, so the range reaches well past typical REST latencies.
func getRequestLatencyBuckets() []float64 {
	return []float64{
		0.01, // 10ms
		0.05, // 50ms
		0.1,  // 100ms
		0.25, // 250ms
		0.5,  // 500ms
		1.0,  // 1s
		2.5,  // 2.5s
		5.0,  // 5s
		10.0, // 10s
		30.0, // 30s
		60.0, // 1min
	}
}

// Metrics records one data point per backend request.
type Metrics struct {
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewMetrics creates client metrics on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithProvider(otel.GetMeterProvider())
}

// NewMetricsWithProvider creates client metrics on provider.
func NewMetricsWithProvider(provider metric.MeterProvider) (*Metrics, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	meter := provider.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	counter, err := meter.Int64Counter(
		RequestCounterName,
		metric.WithDescription("Number of requests sent to the Wild Docs backend"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		RequestDurationHistogramName,
		metric.WithDescription("Duration of requests sent to the Wild Docs backend"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(getRequestLatencyBuckets()...),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{requestCounter: counter, requestDuration: duration}, nil
}

// RecordRequest records a finished request. statusCode is 0 when no response arrived.
func (m *Metrics) RecordRequest(
	ctx context.Context,
	endpoint, method string,
	statusCode int,
	duration time.Duration,
	err error,
) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(AttrEndpoint, endpoint),
		attribute.String(AttrMethod, method),
		attribute.String(AttrStatusCode, strconv.Itoa(statusCode)),
		attribute.String(AttrOutcome, requestOutcome(statusCode, err)),
	)

	// Metrics must survive a cancelled request context.
	ctx = context.WithoutCancel(ctx)
	m.requestCounter.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

func requestOutcome(statusCode int, err error) string {
	switch {
	case statusCode == 0 && errors.Is(err, domainerrors.ErrAPIKeyMissing):
		return OutcomeRejected
	case statusCode == 0 && err != nil:
		return OutcomeTransport
	case statusCode >= 500:
		return OutcomeServerError
	case statusCode >= 400:
		return OutcomeClientError
	case err != nil:
		return OutcomeClientError
	default:
		return OutcomeSuccess
	}
}
