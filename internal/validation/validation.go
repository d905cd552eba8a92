// Package validation binds HTTP requests and turns rule violations into
// 400 responses with per-field errors.
//
// Rules come from two places: validator struct tags, checked with Struct,
// and the request's own Validate method. Field names in the response are
// the wire names (json, query or param tag), not the Go field names.
package validation
