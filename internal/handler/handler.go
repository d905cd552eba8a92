// Package handler implements the HTTP endpoints.
//
// Business endpoints go through Handle, which binds and validates a typed
// request, calls the service layer and writes the JSON result. Errors are
// returned to echo and rendered by the global error handler.
package handler
