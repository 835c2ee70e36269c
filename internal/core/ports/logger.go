package ports

import "io"

// Logger defines the logging interface used across the application.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string)

	// Info logs an informational message.
	Info(msg string)

	// Warn logs a warning message.
	Warn(msg string)

	// Error logs an error, rendering wrapped causes and metadata.
	Error(err error)

	// SetJSON switches between JSON and pretty output.
	SetJSON(enable bool)

	// SetOutput updates the logger's output destination.
	SetOutput(w io.Writer)
}
