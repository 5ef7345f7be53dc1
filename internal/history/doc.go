// Package history persists the outcome of every lookup and rip job in a
// SQLite database under the state directory.
//
// Each rip records one row in jobs plus one row per attempted track in
// track_results, so a failed album keeps the record of which tracks made it
// to disk. The store uses WAL mode and retries briefly on SQLITE_BUSY so the
// CLI can read history while another process is ripping.
package history
