// Package api provides the HTTP handlers for the review workflow.
//
// Handlers decode and validate JSON requests, call the review service, and
// translate the results into the response types defined in models.go.
// Errors are mapped to status codes and sanitized messages by the helpers
// in errors.go, so internal details never reach clients.
package api
