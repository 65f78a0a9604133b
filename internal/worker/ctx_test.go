package worker

import (
	"context"
	"testing"
)

func TestRunFrom(t *testing.T) {
	if _, ok := RunFrom(context.Background()); ok {
		t.Fatalf("expected no run on a bare context")
	}

	ctx := WithRun(context.Background(), RunInfo{ID: "run_123", DryRun: true})
	info, ok := RunFrom(ctx)
	if !ok {
		t.Fatalf("expected run info")
	}
	if info.ID != "run_123" || !info.DryRun {
		t.Fatalf("unexpected run info %+v", info)
	}
}
