// Package server provides HTTP routing, middleware, and the streaming playlist endpoint.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] patterns, so "GET /health" style routes get
// method matching and 405 responses for free.
//
// # Middleware
//
//   - [RequestLogger] logs every request with a generated ID, also returned in the X-Request-ID header
//   - [Recoverer] converts handler panics into 500 responses
//
// # Streaming
//
// [StreamHandler] serves GET /api/playlist/stream?show_id=... as server-sent events:
//
//	event: track   data: {"line": "01. Artist — Title ✅ https://..."}
//	event: error   data: {"message": "..."}
//	event: done    data: {"count": 12}
//
// Track lines are sent in page order as soon as each is matched. A stream ends with exactly one
// "done" or "error" event, and an error is never preceded by track events from the same run
// unless matching was interrupted.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
