package worker

import (
	"context"
	"errors"
	"time"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Runner executes ProcessFn once, then again every Every until the context
// ends or the stop token fires. Every <= 0 means a single run.
type Runner struct {
	Every     time.Duration
	Stop      *StopToken
	Logger    Logger
	ProcessFn func(ctx context.Context, iteration int) error
}

func (r Runner) Run(ctx context.Context) error {
	if r.ProcessFn == nil {
		return errors.New("process func is nil")
	}

	iteration := 1
	if err := r.tick(ctx, iteration); err != nil {
		return err
	}
	if r.Every <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.Every)
	defer ticker.Stop()

	var stopped <-chan struct{}
	if r.Stop != nil {
		stopped = r.Stop.Done()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopped:
			return nil
		case <-ticker.C:
			if r.Stop.Stopped() {
				return nil
			}
			iteration++
			if err := r.tick(ctx, iteration); err != nil {
				return err
			}
		}
	}
}

func (r Runner) tick(ctx context.Context, iteration int) error {
	if r.Logger != nil && r.Every > 0 {
		r.Logger.Printf("sync iteration=%d", iteration)
	}
	return r.ProcessFn(ctx, iteration)
}
