package metrics

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewTracerProvider creates the tracer provider for workflow spans. Every
// root span is sampled so its trace id can be attached to the operation's
// log entries; processors add export targets.
func NewTracerProvider(processors ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}

	return sdktrace.NewTracerProvider(opts...)
}
