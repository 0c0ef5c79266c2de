package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Invocation returns requestID when the transport supplied one, otherwise a
// fresh ULID. Used to correlate the log lines of one invocation.
func Invocation(requestID string) string {
	if requestID != "" {
		return requestID
	}
	return New()
}
