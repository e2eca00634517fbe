// Package constants names the headers and context keys that carry request
// metadata from the HTTP edge to the remote work order server.
package constants

type contextKey string

const (
	// HeaderXRequestId correlates gateway and remote server log lines.
	HeaderXRequestId = "x-request-id"
	// HeaderXIdempotencyKey lets a retried submission be recognised upstream.
	HeaderXIdempotencyKey = "x-idempotency-key"

	ContextKeyRequestID      contextKey = HeaderXRequestId
	ContextKeyIdempotencyKey contextKey = HeaderXIdempotencyKey
)
