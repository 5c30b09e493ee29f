package reactive

import (
	"log/slog"
	"sync/atomic"
)

var packageLogger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for protocol diagnostics. A nil logger
// restores slog.Default().
func SetLogger(logger *slog.Logger) {
	packageLogger.Store(logger)
}

func logger() *slog.Logger {
	if l := packageLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
