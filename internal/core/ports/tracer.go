package ports

import "context"

// Span is an in-flight trace span.
type Span interface {
	// End completes the span.
	End()

	// RecordError attaches an error to the span and marks it failed.
	RecordError(err error)
}

// Tracer creates spans around reload and resolution passes.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	// Start creates a new span as a child of the span in ctx, if any.
	Start(ctx context.Context, name string) (context.Context, Span)

	// Shutdown flushes and releases tracer resources.
	Shutdown(ctx context.Context) error
}
