// Package errs defines the HTTP error shape returned to clients.
//
// Every error that reaches the global error handler is converted into an
// HTTPError so clients always see the same JSON structure:
//
//	{"code": "NOT_FOUND", "message": "Plane not found", "status": 404, ...}
//
// Handlers and services never format error responses themselves.
package errs
