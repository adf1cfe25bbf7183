package ai

import "errors"

// Failure classes for the remote classifier. All of them are recovered
// internally by falling back to the heuristic path; none escapes Analyze.
var (
	// ErrMissingCredential means no API key is configured. This is an
	// expected configuration state, not an operational error.
	ErrMissingCredential = errors.New("remote classifier credential not configured")

	// ErrRemoteCallFailed covers network and service-side failures.
	ErrRemoteCallFailed = errors.New("remote classifier call failed")

	// ErrInvalidResponseFormat means the response could not be parsed.
	ErrInvalidResponseFormat = errors.New("remote classifier response unparsable")

	// ErrInvalidResponseSchema means the parsed response is missing a
	// numeric score or a valid risk level.
	ErrInvalidResponseSchema = errors.New("remote classifier response missing required fields")
)
