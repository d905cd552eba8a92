// Package middleware holds the echo middlewares: request ids, request-scoped
// loggers, New Relic tracing, rate limiting, Clerk auth and the global error
// handler.
package middleware
