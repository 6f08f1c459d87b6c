// Package middleware stores the echo middleware applied to every route.
//
// These intercept requests to handle cross-cutting concerns such as request
// ids, request logging, New Relic tracing, CORS, rate limiting and panic
// recovery, and hold the global error handler.
package middleware
