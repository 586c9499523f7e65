// Package approval implements the approval workflow: a requester submits a
// command envelope, which is stored as a pending request until an approver
// executes it. Execution of a request happens at most once.
package approval
