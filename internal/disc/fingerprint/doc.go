// Package fingerprint renders a disc TOC into the lookup key understood by the
// MusicBrainz disc ID web service.
//
// The rendered form is "1+<tracks>+<leadout>+<start_1>+...+<start_N>". The
// service parses it positionally, so the field order and separator are a wire
// contract and must not change.
package fingerprint
