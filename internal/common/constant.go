// Package common contains shared constants and sentinel errors used across
// the admin console client and the reference backend.
package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// LegacyTokenHeaderName carries the raw token for deployments that still
	// use the x-access-tokens scheme.
	LegacyTokenHeaderName = "x-access-tokens"

	// SessionCookieName is the cookie set by /login and cleared by /logout.
	SessionCookieName = "session"

	// TimestampLayout is the wire layout of created_at values (UTC).
	TimestampLayout = "2006-01-02 15:04:05"
)
