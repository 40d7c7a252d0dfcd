package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog sends structured logs to stderr, verbose enables debug level
// which also turns on per-request logging in InstrumentResty.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
