// Package metrics holds the shared OpenTelemetry plumbing: the meter provider
// exported through Prometheus, the tracer provider, common histogram buckets
// and the outcome label derived from errors.
package metrics

import (
	"botlist/pkg/serrors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OutcomeOK is the outcome label of a successful operation.
const OutcomeOK = "ok"

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// NewMeterProvider creates a meter provider whose instruments are exported
// through the given Prometheus registerer.
func NewMeterProvider(reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}

// Outcome returns a low-cardinality label for err: OutcomeOK for nil, the
// name of its outermost serrors kind, or "error" for anything else.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}

	if k := serrors.KindOf(err); k != nil {
		return k.Error()
	}

	return "error"
}
