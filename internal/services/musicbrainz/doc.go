// Package musicbrainz looks up a disc fingerprint against the MusicBrainz
// disc ID web service and maps the response into release candidates.
//
// The client performs exactly one HTTP request per lookup: no caching and no
// retries. Transport failures and non-2xx statuses surface as ErrNetwork; a
// well-formed response without releases surfaces as ErrNoMatch so callers can
// fall back to manual entry. Candidates keep the service's ordering, which is
// its own relevance ranking.
package musicbrainz
