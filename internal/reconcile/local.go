package reconcile

import (
	"context"

	lifecyclesvc "github.com/kirinyoku/tixlife/internal/service/lifecycle"
)

type lifecycleService interface {
	ReconcileAll(ctx context.Context) (lifecyclesvc.Summary, error)
}

// Local runs reconciliation in-process.
type Local struct {
	svc lifecycleService
}

func NewLocal(svc lifecycleService) *Local {
	return &Local{svc: svc}
}

func (l *Local) ReconcileAll(ctx context.Context) Result {
	sum, err := l.svc.ReconcileAll(ctx)
	if err != nil {
		return Result{Message: err.Error()}
	}

	return Result{Success: true, Message: sum.Message()}
}
