// Package tracing wraps OpenTelemetry so that services open and close spans
// through two helpers, StartSpan and EndSpan, without importing the SDK.
// Until Init is called spans are no-ops.
package tracing
