// Package logs reads the cdrip log file for `cdrip logs`.
//
// Last returns the final N lines with bounded memory, Since reads forward
// from a byte offset, and Follow polls for appended lines until its context
// ends. A file shorter than the remembered offset is treated as rotated and
// read again from the start.
package logs
