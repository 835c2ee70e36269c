package telemetry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/crest/internal/adapters/telemetry"
)

func newRecordingTracer() (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer("crest-test", sdktrace.WithSpanProcessor(recorder))
	return tracer, recorder
}

func TestTracerRecordsSpan(t *testing.T) {
	tracer, recorder := newRecordingTracer()

	_, span := tracer.Start(t.Context(), "presets.reload")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "presets.reload", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestTracerNestsChildSpans(t *testing.T) {
	tracer, recorder := newRecordingTracer()

	ctx, parent := tracer.Start(t.Context(), "presets.resolve")
	_, child := tracer.Start(ctx, "presets.expand")
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	childSpan, parentSpan := spans[0], spans[1]
	assert.Equal(t, "presets.expand", childSpan.Name())
	assert.Equal(t, parentSpan.SpanContext().SpanID(), childSpan.Parent().SpanID())
}

func TestSpanRecordError(t *testing.T) {
	tracer, recorder := newRecordingTracer()

	_, span := tracer.Start(t.Context(), "presets.resolve")
	span.RecordError(errors.New("preset not found"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "preset not found", spans[0].Status().Description)

	events := spans[0].Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "exception", events[0].Name)
}

func TestTracerShutdown(t *testing.T) {
	tracer, _ := newRecordingTracer()

	_, span := tracer.Start(t.Context(), "presets.reload")
	span.End()

	require.NoError(t, tracer.Shutdown(t.Context()))
}
