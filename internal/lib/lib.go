// Package lib groups integrations that sit outside the request path:
// background jobs on Redis through asynq, and transactional email
// through Resend.
package lib
