// Package client is the authenticated HTTP transport of the admin console.
//
// # Overview
//
//  1. Client is the transport contract used by the services: one Do call per
//     request, returning the raw status, headers and body.
//  2. HTTPClient implements it over net/http. Before each request it reads
//     the stored credential (see TokenReader) and attaches it using the
//     configured HeaderScheme.
//  3. Payload encoders: FormPayload for urlencoded forms and MultipartPayload
//     for record uploads with file parts.
//
// # Error Handling
//
// Non-2xx responses come back as *HTTPError, and the 401/403 variants match
// ErrUnauthorized with errors.Is. Requests that never got a response (dial
// failures, timeouts, cancellation) come back as *NetworkError and match
// ErrUnavailable. *ValidationError and *AuthError are raised by the services
// built on top of the transport and live here so every layer shares one
// taxonomy. There are no retries.
package client
