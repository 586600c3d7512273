package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithDocument returns a logger with content-document fields attached.
// Use this for all logging tied to a single project or post.
func WithDocument(collection, slug string) *slog.Logger {
	return slog.With(
		"collection", collection,
		"slug", slug,
	)
}

// WithBatch returns a logger scoped to one editor upload batch.
func WithBatch(logger *slog.Logger, batchID string, size int) *slog.Logger {
	return logger.With(
		"batch_id", batchID,
		"batch_size", size,
	)
}
