// Package services defines shared utilities consumed by the workflow jobs and
// the external integrations under it (MusicBrainz, Cover Art Archive).
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, devices, and stage names for logging.
//   - Structured error markers plus the Wrap helper so callers can classify a
//     failure with errors.Is regardless of which integration produced it.
package services
