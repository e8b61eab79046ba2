package logging

import (
	"io"
	"log/slog"
)

// SafeCloseWithLogging closes a resource (typically a GTFS CSV file handle)
// and logs any error instead of letting a defer swallow it.
func SafeCloseWithLogging(closer io.Closer, logger *slog.Logger, operation string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		LogError(logger, "failed to close resource", err,
			slog.String("operation", operation),
			slog.String("component", "resource_management"))
	}
}

// HandleDeferredError runs a deferred cleanup operation and folds its error
// into *originalErr if the caller hasn't already failed for another reason.
func HandleDeferredError(originalErr *error, deferredOp func() error, logger *slog.Logger, operation string) {
	if deferredOp == nil {
		return
	}
	if err := deferredOp(); err != nil {
		LogError(logger, "deferred operation failed", err,
			slog.String("operation", operation),
			slog.String("component", "deferred_cleanup"))
		if *originalErr == nil {
			*originalErr = err
		}
	}
}
