// Package reconcile persists the lifecycle outcome of events whose sale
// window has closed, either in-process or by calling the admin endpoint of
// a running API.
package reconcile

import "context"

// Result is the outcome of one reconciliation request. Failures are reported
// here rather than as errors; a failed run is retried by the next trigger.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Reconciler runs one reconciliation pass. Implementations never block the
// caller past ctx and are safe for concurrent use.
type Reconciler interface {
	ReconcileAll(ctx context.Context) Result
}
