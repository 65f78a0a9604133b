package ingest

import (
	"testing"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

func TestClassify(t *testing.T) {
	cached := map[string]string{
		"same":    "abc",
		"changed": "abc",
		"blank":   "",
	}

	tests := []struct {
		offerID     string
		hash        string
		disposition domain.Disposition
		reason      string
	}{
		{offerID: "fresh", hash: "abc", disposition: domain.DispositionEnqueued, reason: domain.ReasonNewOffer},
		{offerID: "same", hash: "abc", disposition: domain.DispositionUnchanged, reason: domain.ReasonNoChange},
		{offerID: "changed", hash: "def", disposition: domain.DispositionEnqueued, reason: domain.ReasonContentChanged},
		{offerID: "blank", hash: "def", disposition: domain.DispositionEnqueued, reason: domain.ReasonContentChanged},
	}

	for _, tt := range tests {
		t.Run(tt.offerID, func(t *testing.T) {
			d := Classify(cached, tt.offerID, tt.hash)
			if d.Disposition != tt.disposition {
				t.Fatalf("expected %s, got %s", tt.disposition, d.Disposition)
			}
			if d.Reason != tt.reason {
				t.Fatalf("expected %s, got %s", tt.reason, d.Reason)
			}
		})
	}
}
