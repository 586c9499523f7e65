// Package idgen wraps the UUID generator so that request and account
// identifiers can be stubbed in tests. It lives under `internal` because
// callers outside the module should treat identifiers as opaque strings.
package idgen
