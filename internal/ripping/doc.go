// Package ripping runs the per-track extract/encode pipeline for audio CDs.
//
// A RipJob is validated before anything touches the filesystem. The pipeline
// then creates the album directory, persists cover art once, and walks the
// track list strictly in order. For WAV output the extractor writes the final
// file itself; for every other format the extractor's stdout is connected to
// the encoder's stdin through an OS pipe so audio never passes through this
// process. The first failing track aborts the job and its partial output is
// removed; earlier tracks stay on disk.
package ripping
