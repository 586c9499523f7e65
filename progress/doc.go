// Package progress keeps running counters of approval activity: requests
// created, executions attempted, completed, failed and rejected as already
// completed, and deletions.
package progress
