// Package logging assembles structured slog loggers and formatting helpers used
// across cdrip.
//
// It owns the console and JSON handlers, the rotating log file, level
// parsing, and context-aware helpers that tag records with the job ID, device,
// and stage carried on a context. TeeLogger lets a job mirror its records into
// an additional handler, which is how job log events reach callers.
package logging
