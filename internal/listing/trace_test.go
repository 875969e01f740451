package listing_test

import (
	"botlist/internal/listing"
	"botlist/pkg/domain"
	"botlist/pkg/logger"
	"botlist/pkg/metrics"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestService_Delete_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := metrics.NewTracerProvider(recorder)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ts := newTestService(t, func(o *listing.Options) { o.TracerProvider = tp })

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	var traceID string
	ts.storage.EXPECT().ListingByID(gomock.Any(), botID).DoAndReturn(
		func(ctx context.Context, _ domain.ListingID) (*domain.Listing, error) {
			sc := trace.SpanFromContext(ctx).SpanContext()
			require.True(t, sc.IsValid())
			traceID = sc.TraceID().String()
			logger.Info(ctx, "looked up")

			return nil, nil
		},
	)

	_, err := ts.svc.Delete(ctx, owner(), botID)
	require.ErrorIs(t, err, listing.ErrNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "listing.delete", spans[0].Name())
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Equal(t, "LISTING_NOT_FOUND", spans[0].Status().Description)
	require.Equal(t, traceID, spans[0].SpanContext().TraceID().String())

	entries := logs.FilterMessage("looked up").All()
	require.Len(t, entries, 1)
	require.Equal(t, traceID, entries[0].ContextMap()["traceID"])
	require.Equal(t, "delete", entries[0].ContextMap()["operation"])
}
