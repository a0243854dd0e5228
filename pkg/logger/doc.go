// Package logger provides a structured logging interface backed by zerolog.
//
// A Logger is built once at startup from the loaded settings and passed to
// every component that logs; there is no package-level instance.
//
//	log, err := logger.New(cfg.Logging())
//	if err != nil {
//	    return err
//	}
//	log.WithField("account", "alice").Info("Starting scrape")
//
// Levels accept both the settings names (DEBUG, INFO, WARNING, ERROR,
// CRITICAL) and zerolog's names. When a log directory is configured each
// run appends to iglikes_<date>.log there, and CleanupOldLogs prunes files
// older than the retention window.
//
// Tests use NewNopLogger to discard output or NewTestLogger to capture and
// assert on messages.
package logger
