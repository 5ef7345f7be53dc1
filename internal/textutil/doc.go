// Package textutil provides filename sanitization for the output tree.
//
// Artist, album, and track titles come from a remote catalog or user input and
// may contain path separators, shell punctuation, or decomposed Unicode. The
// helpers here reduce them to letters, digits, spaces, dots, and underscores so
// the resulting names are safe on every filesystem the rips are copied to.
package textutil
