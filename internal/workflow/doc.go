// Package workflow runs lookup and rip jobs against an optical drive.
//
// The Manager starts each job on its own goroutine and hands the caller a Job
// whose Events channel carries log lines, progress updates, and exactly one
// terminal event (Done or Failed). Only one job may hold a device at a time;
// the claim is enforced in process and across processes with a lock file in
// the state directory.
//
// Lookup jobs read the TOC, build the disc fingerprint, query MusicBrainz and
// fetch the front cover when the match is unambiguous. Rip jobs hand a
// validated ripping.RipJob to the pipeline, record the outcome in history,
// eject the disc on success when configured, and publish notifications.
package workflow
