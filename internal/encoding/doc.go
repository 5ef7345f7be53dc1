// Package encoding builds encoder command lines for each supported output
// format.
//
// Every compressed format is a Strategy that turns a common Tags value into
// the argument list of its encoder, using that format's own tagging
// convention. Uncompressed WAV has no strategy: the extractor writes the final
// file itself. Adding a format means adding one Strategy and registering it.
package encoding
