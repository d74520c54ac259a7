// Package services looks up video metadata over HTTP.
//
// # Metadata Lookup
//
// [MetadataFetcher] resolves a normalized video URL to a title, thumbnail and author. [OEmbedService] implements it
// against oEmbed endpoints: YouTube and Vimeo URLs go to their provider endpoints, anything else goes to the
// configured fallback (noembed by default). Requests are paced by a token bucket from golang.org/x/time/rate.
//
// # Timeouts
//
// Lookups have no deadline of their own. Callers wrap a fetcher with [WithTimeout], which bounds every call and
// reports an expired deadline as [shared.ErrTimeout].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMetadataLookup] : the endpoint answered without usable metadata
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
//   - [shared.ErrTimeout] : the lookup deadline passed
package services
