// Package service holds the business rules for companies and jobs.
//
// Services sit between handlers and repositories: they check the rules a
// schema cannot express on its own (handle format, ranges, existence of the
// referenced company, name uniqueness) and report violations with the typed
// errors of package errs before any write reaches storage.
package service
