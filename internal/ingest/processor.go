package ingest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

// ErrPlanOverlap means an offer id ended up both queued for upload and marked
// stale. The plan is unusable when that happens.
var ErrPlanOverlap = errors.New("ingest: offer id both queued and stale")

// UploadItem is a variant queued for upload with its fresh fingerprint.
type UploadItem struct {
	Variant domain.Variant
	Hash    string
}

type VariantResult struct {
	OfferID string `json:"offer_id"`
	Hash    string `json:"hash,omitempty"`

	Disposition domain.Disposition `json:"disposition"`
	Reason      string             `json:"reason,omitempty"`

	Issues []ValidationIssue `json:"issues,omitempty"`
}

type PlanSummary struct {
	Received  int `json:"received"`
	Valid     int `json:"valid"`
	Rejected  int `json:"rejected"`
	Unchanged int `json:"unchanged"`
	Enqueued  int `json:"enqueued"`
	Stale     int `json:"stale"`
}

// Plan is the outcome of diffing built variants against the cache.
type Plan struct {
	Summary PlanSummary     `json:"summary"`
	Results []VariantResult `json:"results"`

	Upload []UploadItem `json:"-"`
	Stale  []string     `json:"stale"`
}

type Processor struct {
	Hasher Hasher
}

func NewProcessor() Processor {
	return Processor{
		Hasher: Hasher{},
	}
}

// Diff compares variants against cached hashes (offer id -> hash). A variant
// is queued when it is not cached or its fingerprint differs; cached ids that
// no variant carries any more are stale. Stale ids come back sorted.
func (p Processor) Diff(variants []domain.Variant, cached map[string]string) (Plan, error) {
	out := Plan{
		Summary: PlanSummary{
			Received: len(variants),
		},
		Results: make([]VariantResult, 0, len(variants)),
		Stale:   []string{},
	}

	present := make(map[string]struct{}, len(variants))

	for _, v := range variants {
		res := VariantResult{
			OfferID: v.OfferID,
		}
		if v.OfferID != "" {
			present[v.OfferID] = struct{}{}
		}

		vr := ValidateVariant(v)
		if !vr.IsValid() {
			res.Disposition = domain.DispositionRejected
			res.Reason = domain.ReasonValidationFailed
			res.Issues = vr.Issues

			out.Results = append(out.Results, res)
			out.Summary.Rejected++
			continue
		}

		hash, err := p.Hasher.Fingerprint(v)
		if err != nil {
			return Plan{}, fmt.Errorf("fingerprint %s: %w", v.OfferID, err)
		}
		res.Hash = hash

		decision := Classify(cached, v.OfferID, hash)
		res.Disposition = decision.Disposition
		res.Reason = decision.Reason

		out.Results = append(out.Results, res)
		out.Summary.Valid++

		switch res.Disposition {
		case domain.DispositionUnchanged:
			out.Summary.Unchanged++
		case domain.DispositionEnqueued:
			out.Summary.Enqueued++
			out.Upload = append(out.Upload, UploadItem{Variant: v, Hash: hash})
		}
	}

	for id := range cached {
		if _, ok := present[id]; !ok {
			out.Stale = append(out.Stale, id)
		}
	}
	sort.Strings(out.Stale)
	out.Summary.Stale = len(out.Stale)
	for _, id := range out.Stale {
		out.Results = append(out.Results, VariantResult{
			OfferID:     id,
			Hash:        cached[id],
			Disposition: domain.DispositionStale,
			Reason:      domain.ReasonAbsentFromFeed,
		})
	}

	if err := out.checkDisjoint(); err != nil {
		return Plan{}, err
	}

	return out, nil
}

func (pl Plan) checkDisjoint() error {
	stale := make(map[string]struct{}, len(pl.Stale))
	for _, id := range pl.Stale {
		stale[id] = struct{}{}
	}
	for _, it := range pl.Upload {
		if _, ok := stale[it.Variant.OfferID]; ok {
			return fmt.Errorf("%w: %s", ErrPlanOverlap, it.Variant.OfferID)
		}
	}
	return nil
}

// Dedupe keeps the first variant for every offer id and reports how many
// later ones were dropped.
func Dedupe(variants []domain.Variant) ([]domain.Variant, int) {
	seen := make(map[string]struct{}, len(variants))
	out := make([]domain.Variant, 0, len(variants))
	dropped := 0

	for _, v := range variants {
		if _, dup := seen[v.OfferID]; dup && v.OfferID != "" {
			dropped++
			continue
		}
		seen[v.OfferID] = struct{}{}
		out = append(out, v)
	}

	return out, dropped
}
