package metrics_test

import (
	"botlist/pkg/metrics"
	"botlist/pkg/serrors"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOutcome(t *testing.T) {
	notOwner := serrors.Derive(serrors.ErrForbidden, "NOT_OWNER", false)

	require.Equal(t, metrics.OutcomeOK, metrics.Outcome(nil))
	require.Equal(t, "error", metrics.Outcome(errors.New("boom")))
	require.Equal(t, serrors.ErrNotFound.Error(), metrics.Outcome(serrors.With(serrors.ErrNotFound, "missing")))
	require.Equal(t, "NOT_OWNER", metrics.Outcome(serrors.KindOnly(notOwner)))
}

func TestNewMeterProvider(t *testing.T) {
	reg := prometheus.NewRegistry()

	mp, err := metrics.NewMeterProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	counter, err := mp.Meter("test").Int64Counter("test.calls")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "test_calls_total" {
			found = true
			require.InDelta(t, 3, f.GetMetric()[0].GetCounter().GetValue(), 0)
		}
	}
	require.True(t, found)
}

func TestNewTracerProvider(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := metrics.NewTracerProvider(recorder)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "listing.submit")
	require.True(t, span.SpanContext().IsSampled())
	span.End()

	require.Len(t, recorder.Ended(), 1)
	require.Equal(t, "listing.submit", recorder.Ended()[0].Name())
}
