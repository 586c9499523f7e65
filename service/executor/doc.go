// Package executor bridges approved command envelopes and the domain services
// that carry them out. Every envelope variant is dispatched to exactly one
// domain operation; domain failures are reported as command execution errors.
package executor
