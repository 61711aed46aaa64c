package api

import "net/http"

// Credentials carries HTTP basic-auth credentials for appliances that
// have user authentication enabled. The client itself is agnostic about
// authentication; whoever constructs it decides what the transport adds.
type Credentials struct {
	Username string
	Password string
}

// authTransport injects basic auth into every outgoing request.
type authTransport struct {
	creds Credentials
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.SetBasicAuth(t.creds.Username, t.creds.Password)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}
