// Package links canonicalizes pasted video URLs and parses "add video" deep links.
//
// [Normalize] strips tracking parameters, lowercases the host, drops a leading "www." and extracts the provider
// video id for the shapes it knows:
//
//	youtube.com/watch?v=ID       youtu.be/ID
//	youtube.com/embed/ID         youtube.com/shorts/ID
//	youtube.com/live/ID          youtube.com/v/ID
//	vimeo.com/123456             player.vimeo.com/video/123456
//
// Only the playback parameters v, t, start, list and index survive normalization.
// Input that is not an absolute URL is returned unchanged so it can still be stored as an opaque reference.
//
// [ParseAddIntent] reads the fragment query of an "#/?add=1&url=..." link produced by share targets and bookmarklets.
package links
