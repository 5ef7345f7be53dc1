// Package preflight runs environment checks before ripping: external
// programs, output and state directory access, free space, drive tray state,
// and reachability of the metadata service. The doctor command renders every
// result; the rip workflow refuses to start when a required check fails.
package preflight
