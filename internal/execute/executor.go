package execute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ETAnderson/catalogsync/internal/catalog"
	"github.com/ETAnderson/catalogsync/internal/channels"
	"github.com/ETAnderson/catalogsync/internal/domain"
	"github.com/ETAnderson/catalogsync/internal/events"
	"github.com/ETAnderson/catalogsync/internal/ingest"
	"github.com/ETAnderson/catalogsync/internal/logging"
	"github.com/ETAnderson/catalogsync/internal/metrics"
	"github.com/ETAnderson/catalogsync/internal/state"
	"github.com/ETAnderson/catalogsync/internal/worker"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Counts are the per-run tallies reported at the end of a sync.
type Counts struct {
	Products     int `json:"products"`
	Variants     int `json:"variants"`
	Duplicates   int `json:"duplicates"`
	Rejected     int `json:"rejected"`
	Unchanged    int `json:"unchanged"`
	Queued       int `json:"queued"`
	Uploaded     int `json:"uploaded"`
	UploadFailed int `json:"upload_failed"`
	Stale        int `json:"stale"`
	Deleted      int `json:"deleted"`
	DeleteFailed int `json:"delete_failed"`
}

type Report struct {
	RunID     string           `json:"run_id"`
	Status    domain.RunStatus `json:"status"`
	LastPhase domain.RunPhase  `json:"last_phase"`
	DryRun    bool             `json:"dry_run"`

	Counts

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (r Report) String() string {
	return logging.KV(map[string]any{
		"run_id":        r.RunID,
		"status":        r.Status,
		"phase":         r.LastPhase,
		"products":      r.Products,
		"variants":      r.Variants,
		"duplicates":    r.Duplicates,
		"rejected":      r.Rejected,
		"unchanged":     r.Unchanged,
		"queued":        r.Queued,
		"uploaded":      r.Uploaded,
		"upload_failed": r.UploadFailed,
		"stale":         r.Stale,
		"deleted":       r.Deleted,
		"delete_failed": r.DeleteFailed,
	})
}

// Executor runs one full-snapshot sync: build variants, diff them against the
// cache, delete stale offers, upload changed ones. Remote calls are made one
// at a time; a failed item is logged and counted and never stops the loop.
type Executor struct {
	Builder   *catalog.Builder
	Processor ingest.Processor
	Store     state.Store
	Client    channels.Client
	AccountID string

	// DryRun keeps the cache untouched. Pair it with the dryrun client.
	DryRun bool

	// Limit caps how many feed products are built. A limited run sees a
	// partial snapshot, so stale deletion is skipped.
	Limit int

	Stop    *worker.StopToken
	Logger  Logger
	Metrics *metrics.Registry
	Events  events.Publisher

	Now func() time.Time
}

// Execute runs LOAD_CACHE -> BUILD_VARIANTS -> DIFF -> DELETE_STALE ->
// UPLOAD_CHANGED -> DONE. The returned error is only set for run-level
// failures (cache or plan); the report is filled as far as the run got.
func (e Executor) Execute(ctx context.Context, products []domain.FeedProduct) (Report, error) {
	rep := e.newReport()
	ctx = worker.WithRun(ctx, worker.RunInfo{ID: rep.RunID, DryRun: e.DryRun})

	if e.Builder == nil || e.Store == nil || e.Client == nil {
		return rep, errors.New("executor: builder, store and client are required")
	}

	partial := false
	if e.Limit > 0 && len(products) > e.Limit {
		products = products[:e.Limit]
		partial = true
	}

	// LOAD_CACHE
	rep.LastPhase = domain.PhaseLoadCache
	e.logf("run=%s phase=%s", rep.RunID, rep.LastPhase)
	cached, err := e.Store.LoadAll(ctx)
	if err != nil {
		return e.finish(rep), fmt.Errorf("load cache: %w", err)
	}

	// BUILD_VARIANTS
	rep.LastPhase = domain.PhaseBuildVariants
	var built []domain.Variant
	for _, p := range products {
		built = append(built, e.Builder.Build(p)...)
	}
	variants, dups := ingest.Dedupe(built)
	rep.Products = len(products)
	rep.Variants = len(variants)
	rep.Duplicates = dups
	e.logf("run=%s phase=%s products=%d variants=%d duplicates=%d cached=%d",
		rep.RunID, rep.LastPhase, rep.Products, rep.Variants, rep.Duplicates, len(cached))

	// DIFF
	rep.LastPhase = domain.PhaseDiff
	plan, err := e.Processor.Diff(variants, state.Hashes(cached))
	if err != nil {
		return e.finish(rep), fmt.Errorf("diff: %w", err)
	}
	rep.Rejected = plan.Summary.Rejected
	rep.Unchanged = plan.Summary.Unchanged
	rep.Queued = len(plan.Upload)
	rep.Stale = len(plan.Stale)
	for _, r := range plan.Results {
		if r.Disposition == domain.DispositionRejected {
			e.logf("run=%s rejected offer_id=%q issues=%d", rep.RunID, r.OfferID, len(r.Issues))
		}
	}
	e.logf("run=%s phase=%s queued=%d unchanged=%d stale=%d rejected=%d",
		rep.RunID, rep.LastPhase, rep.Queued, rep.Unchanged, rep.Stale, rep.Rejected)

	stale := plan.Stale
	if partial && len(stale) > 0 {
		e.logf("run=%s limit=%d skipping %d stale deletions on a partial feed", rep.RunID, e.Limit, len(stale))
		stale = nil
	}

	// DELETE_STALE
	rep.LastPhase = domain.PhaseDeleteStale
	cancelled, err := e.deleteAll(ctx, &rep, stale)
	if err != nil {
		return e.finish(rep), err
	}
	if cancelled {
		rep.Status = domain.RunStatusCancelled
		return e.finish(rep), nil
	}

	// UPLOAD_CHANGED
	rep.LastPhase = domain.PhaseUploadChanged
	cancelled, err = e.uploadAll(ctx, &rep, plan.Upload)
	if err != nil {
		return e.finish(rep), err
	}
	if cancelled {
		rep.Status = domain.RunStatusCancelled
		return e.finish(rep), nil
	}

	rep.LastPhase = domain.PhaseDone
	return e.finish(rep), nil
}

// DeleteOffers removes the given offers remotely and from the cache, with the
// same failure isolation and stop handling as the stale phase of a sync.
func (e Executor) DeleteOffers(ctx context.Context, offerIDs []string) (Report, error) {
	rep := e.newReport()
	ctx = worker.WithRun(ctx, worker.RunInfo{ID: rep.RunID, DryRun: e.DryRun})

	if e.Builder == nil || e.Store == nil || e.Client == nil {
		return rep, errors.New("executor: builder, store and client are required")
	}

	rep.LastPhase = domain.PhaseDeleteStale
	rep.Stale = len(offerIDs)
	cancelled, err := e.deleteAll(ctx, &rep, offerIDs)
	if err != nil {
		return e.finish(rep), err
	}
	if cancelled {
		rep.Status = domain.RunStatusCancelled
		return e.finish(rep), nil
	}

	rep.LastPhase = domain.PhaseDone
	return e.finish(rep), nil
}

func (e Executor) deleteAll(ctx context.Context, rep *Report, offerIDs []string) (bool, error) {
	m := e.Builder.Mapping
	for _, id := range offerIDs {
		if e.Stop.Stopped() {
			e.logf("run=%s stop requested during %s", rep.RunID, rep.LastPhase)
			return true, nil
		}

		key := channels.ProductKey(m.Channel, m.ContentLanguage, m.TargetCountry, id)
		err := e.Client.Delete(ctx, e.AccountID, key)
		if errors.Is(err, channels.ErrNotFound) {
			e.logf("run=%s delete offer_id=%s already gone", rep.RunID, id)
			err = nil
		}
		if err != nil {
			rep.DeleteFailed++
			e.inc(func(m *metrics.Registry) { m.DeletesFailed.Inc() })
			e.logf("run=%s delete failed %s", rep.RunID, logging.KV(map[string]any{"offer_id": id, "err": err}))
			e.publish(ctx, rep, events.Event{OfferID: id, ProductKey: key, Action: events.ActionDelete, Status: events.StatusError, Message: err.Error()})
			continue
		}

		if !e.DryRun {
			if err := e.Store.Delete(ctx, id); err != nil {
				return false, fmt.Errorf("cache delete %s: %w", id, err)
			}
		}
		rep.Deleted++
		e.inc(func(m *metrics.Registry) { m.DeletesOK.Inc() })
		e.publish(ctx, rep, events.Event{OfferID: id, ProductKey: key, Action: events.ActionDelete, Status: events.StatusOK})
	}
	return false, nil
}

func (e Executor) uploadAll(ctx context.Context, rep *Report, items []ingest.UploadItem) (bool, error) {
	for _, it := range items {
		if e.Stop.Stopped() {
			e.logf("run=%s stop requested during %s", rep.RunID, rep.LastPhase)
			return true, nil
		}

		v := it.Variant
		key := channels.VariantKey(v)
		if err := e.Client.Insert(ctx, e.AccountID, v); err != nil {
			rep.UploadFailed++
			e.inc(func(m *metrics.Registry) { m.UploadsFailed.Inc() })
			e.logf("run=%s upload failed %s", rep.RunID, logging.KV(map[string]any{"offer_id": v.OfferID, "err": err}))
			e.publish(ctx, rep, events.Event{OfferID: v.OfferID, ProductKey: key, Action: events.ActionUpload, Status: events.StatusError, Hash: it.Hash, Message: err.Error()})
			continue
		}

		if !e.DryRun {
			rec := state.Record{
				OfferID:     v.OfferID,
				ItemGroupID: v.ItemGroupID,
				Hash:        it.Hash,
				UpdatedAt:   e.now(),
			}
			if err := e.Store.Upsert(ctx, rec); err != nil {
				return false, fmt.Errorf("cache upsert %s: %w", v.OfferID, err)
			}
		}
		rep.Uploaded++
		e.inc(func(m *metrics.Registry) { m.UploadsOK.Inc() })
		e.publish(ctx, rep, events.Event{OfferID: v.OfferID, ProductKey: key, Action: events.ActionUpload, Status: events.StatusOK, Hash: it.Hash})
	}
	return false, nil
}

func (e Executor) newReport() Report {
	return Report{
		RunID:     ingest.NewRunID(),
		DryRun:    e.DryRun,
		StartedAt: e.now(),
	}
}

// finish settles the status (unless already cancelled) and records metrics.
func (e Executor) finish(rep Report) Report {
	rep.FinishedAt = e.now()
	if rep.Status == "" {
		switch {
		case rep.UploadFailed > 0 || rep.DeleteFailed > 0:
			rep.Status = domain.RunStatusCompletedWithErrors
		case rep.Queued > 0 || rep.Stale > 0:
			rep.Status = domain.RunStatusHasChanges
		default:
			rep.Status = domain.RunStatusNoChangeDetected
		}
	}

	e.inc(func(m *metrics.Registry) {
		m.VariantsBuilt.Add(float64(rep.Variants))
		m.Duplicates.Add(float64(rep.Duplicates))
		m.Rejected.Add(float64(rep.Rejected))
		m.Unchanged.Add(float64(rep.Unchanged))
		m.Runs.WithLabelValues(string(rep.Status)).Inc()
		m.RunDuration.Observe(rep.FinishedAt.Sub(rep.StartedAt).Seconds())
	})
	e.logf("run=%s finished %s", rep.RunID, rep)
	return rep
}

func (e Executor) publish(ctx context.Context, rep *Report, ev events.Event) {
	if e.Events == nil {
		return
	}
	ev.RunID = rep.RunID
	ev.DryRun = e.DryRun
	ev.TS = e.now()
	if err := e.Events.Publish(ctx, ev); err != nil {
		e.logf("run=%s event publish failed offer_id=%s err=%v", rep.RunID, ev.OfferID, err)
	}
}

func (e Executor) inc(fn func(m *metrics.Registry)) {
	if e.Metrics != nil {
		fn(e.Metrics)
	}
}

func (e Executor) logf(format string, v ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, v...)
	}
}

func (e Executor) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}
