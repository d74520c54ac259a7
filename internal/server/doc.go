// Package server exposes the collection over a small local JSON API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [BasicRouter] uses [http.ServeMux] internally and answers unknown methods on a known path with 405.
//
// [Middleware] registered first runs outermost. [Logging] and [Recover] are the two the API installs.
//
// # API
//
// [API] implements [Handler] over a [tasks.Library]:
//
//	GET  /healthz            liveness probe
//	GET  /api/state          current collection
//	GET  /api/search         ?q=<query>&playlist=<ref or *>
//	POST /api/playlists      {"name": "..."}
//	POST /api/videos         {"playlist", "url", "title", "tags"}
//	POST /api/intent         {"text": "<#/?add=1 deep link>"}
//	POST /api/share          {"scope", "includeThumbnails"}
//	POST /api/import         {"text", "mode"}
//	POST /api/undo, /api/redo
//
// Errors are JSON documents of the form {"error": "..."} with a status derived from the wrapped sentinel error.
package server
