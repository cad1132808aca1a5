package proxmox

import "errors"

// Sentinel errors returned by the client. Wrap-aware: match with errors.Is.
var (
	// ErrMalformedCredentials means the caller-supplied credential source did
	// not yield hostname, username and password under any supported shape.
	ErrMalformedCredentials = errors.New("malformed credentials")

	// ErrInvalidParams means the params argument of a verb was not a mapping.
	ErrInvalidParams = errors.New("params must be a mapping")

	// ErrAuthenticationFailed means the login request completed but the server
	// returned no ticket payload. The client instance is unusable; build a new one.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrTransport covers network, TLS and non-2xx failures on resource calls.
	ErrTransport = errors.New("transport failure")
)
