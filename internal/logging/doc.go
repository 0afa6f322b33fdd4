// Package logging provides structured logging for focusgate surfaces.
//
// This package wraps Go's log/slog to write JSON-formatted logs. Every
// surface (popup, settings, timeout page, tour, watch) logs through a child
// logger tagged with its name, so a single log file can be filtered per
// surface when chasing a broadcast that one surface applied and another did not.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Persistent context attributes (surface, component)
//   - Size-based rotation with a bounded number of backups
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers created
// via With* methods share the underlying writer.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/state", "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	popup := logger.WithSurface("popup").WithComponent("relay")
//	popup.Error("broadcast handler failed", "event", "siteAdded", "error", err)
//
// Output:
//
//	{"time":"...","level":"ERROR","msg":"broadcast handler failed","surface":"popup","component":"relay","event":"siteAdded","error":"..."}
package logging
