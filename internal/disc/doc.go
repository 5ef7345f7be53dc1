// Package disc talks to the optical drive: it reads the audio Table of
// Contents, checks tray status, and ejects media.
//
// ParseTOC converts the diagnostic text printed by the disc scanning tool into
// a TOC. Scanner runs that tool and feeds its error stream to the parser; the
// tool writes its table to stderr, not stdout. Keep device quirks here so the
// pipeline and workflow packages only ever see structured values.
package disc
