package worker

import "context"

// RunInfo identifies the sync run a call belongs to.
type RunInfo struct {
	ID     string
	DryRun bool
}

type runInfoKey struct{}

func WithRun(ctx context.Context, info RunInfo) context.Context {
	return context.WithValue(ctx, runInfoKey{}, info)
}

// RunFrom returns the run stored by WithRun, if any.
func RunFrom(ctx context.Context) (RunInfo, bool) {
	info, ok := ctx.Value(runInfoKey{}).(RunInfo)
	return info, ok
}
