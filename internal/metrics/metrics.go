package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	VariantsBuilt prometheus.Counter
	Duplicates    prometheus.Counter
	Rejected      prometheus.Counter
	Unchanged     prometheus.Counter
	UploadsOK     prometheus.Counter
	UploadsFailed prometheus.Counter
	DeletesOK     prometheus.Counter
	DeletesFailed prometheus.Counter

	Runs        *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	built := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalogsync_variants_built_total"})
	dups := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalogsync_variants_duplicate_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalogsync_variants_rejected_total"})
	unchanged := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalogsync_variants_unchanged_total"})
	upOK := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalogsync_uploads_ok_total"})
	upFail := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalogsync_uploads_failed_total"})
	delOK := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalogsync_deletes_ok_total"})
	delFail := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalogsync_deletes_failed_total"})

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogsync_runs_total",
		Help: "Finished sync runs by final status.",
	}, []string{"status"})
	runDur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalogsync_run_duration_seconds",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})

	r.MustRegister(built, dups, rejected, unchanged, upOK, upFail, delOK, delFail, runs, runDur)
	return &Registry{
		reg:           r,
		VariantsBuilt: built,
		Duplicates:    dups,
		Rejected:      rejected,
		Unchanged:     unchanged,
		UploadsOK:     upOK,
		UploadsFailed: upFail,
		DeletesOK:     delOK,
		DeletesFailed: delFail,
		Runs:          runs,
		RunDuration:   runDur,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
