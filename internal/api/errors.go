package api

import (
	"fmt"
	"net/http"
)

// Status codes treated as authoritative device answers rather than
// transient faults. A 404 means the appliance doesn't implement the
// command; a 401 means the credentials are wrong. Retrying either is
// pointless.
var trustedStatusCodes = map[int]struct{}{
	http.StatusUnauthorized: {},
	http.StatusNotFound:     {},
}

// StatusError reports a non-2xx HTTP response from the device.
type StatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("device returned %s", e.Status)
}

// Trusted reports whether the status is an authoritative negative answer
// that short-circuits retrying.
func (e *StatusError) Trusted() bool {
	_, ok := trustedStatusCodes[e.StatusCode]
	return ok
}

// ValidationError reports a response that arrived but didn't match what
// the command expected: wrong top-level shape, unexpected emptiness, or
// a body that isn't JSON at all. The device produces these transiently,
// so they are retried like network failures.
type ValidationError struct {
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid device response: " + e.Reason
}
