// Package middleware stores the global middleware of the cats API.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request-scoped logging, CORS, secure headers,
// rate limiting, tracing and panic recovery. It also holds the global
// error handler that turns every returned error into the JSON error envelope.
package middleware
