package api

import "github.com/google/uuid"

// NewRequestID returns a short request id in the service's format:
// the first 8 hex characters of a random UUID.
func NewRequestID() string {
	return uuid.NewString()[:8]
}
