package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ETAnderson/catalogsync/internal/app"
	"github.com/ETAnderson/catalogsync/internal/catalog"
	"github.com/ETAnderson/catalogsync/internal/config"
	"github.com/ETAnderson/catalogsync/internal/execute"
	"github.com/ETAnderson/catalogsync/internal/feed"
	"github.com/ETAnderson/catalogsync/internal/ingest"
	"github.com/ETAnderson/catalogsync/internal/logging"
	"github.com/ETAnderson/catalogsync/internal/metrics"
	"github.com/ETAnderson/catalogsync/internal/worker"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred closes (cache store, event
// publisher) always execute.
func run(args []string) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	var (
		feedPath     = fs.String("feed", cfg.FeedPath, "product feed XML")
		metadataPath = fs.String("metadata", cfg.MetadataPath, "category/manufacturer metadata XML")
		dryRun       = fs.Bool("dry-run", false, "log intended remote calls and leave the cache untouched")
		limit        = fs.Int("limit", 0, "only process the first N products (disables stale deletion)")
		inferDesc    = fs.Bool("infer-from-description", cfg.InferFromDescription, "use description words for gender/age inference")
		every        = fs.Duration("every", 0, "repeat the sync on this interval (0 = run once)")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg.InferFromDescription = *inferDesc

	logger := logging.NewStdLogger("catalog-sync ")
	logger.Printf("ENV=%q CACHE_BACKEND=%q DB_DSN_set=%v dry_run=%v",
		cfg.Env, cfg.CacheBackend, cfg.MySQLDSN != "", *dryRun)

	if err := cfg.Validate(*dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	mapping, err := app.Mapping(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	ctx := context.Background()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Printf("cache store init failed: %v", err)
		return 1
	}
	defer store.Close()

	client, err := app.Client(cfg, *dryRun, logger)
	if err != nil {
		logger.Printf("catalog client init failed: %v", err)
		return 1
	}

	pub, err := app.Publisher(cfg)
	if err != nil {
		logger.Printf("event publisher init failed: %v", err)
		return 1
	}
	defer pub.Close()

	reg := metrics.NewRegistry()
	if srv := app.ServeMetrics(cfg.MetricsAddr, reg, logger); srv != nil {
		defer srv.Close()
	}

	stop := worker.NewStopToken(cfg.StopGrace)
	unwatch := app.WatchSignals(stop, logger, os.Exit)
	defer unwatch()

	exec := execute.Executor{
		Processor: ingest.NewProcessor(),
		Store:     store,
		Client:    client,
		AccountID: cfg.MerchantID,
		DryRun:    *dryRun,
		Limit:     *limit,
		Stop:      stop,
		Logger:    logger,
		Metrics:   reg,
		Events:    pub,
	}

	failed := false
	r := worker.Runner{
		Every:  *every,
		Stop:   stop,
		Logger: logger,
		ProcessFn: func(ctx context.Context, iteration int) error {
			// Metadata and feed are re-read every iteration; each run is a
			// fresh snapshot.
			products, err := feed.ReadProductsFile(*feedPath)
			if err != nil {
				return fmt.Errorf("feed: %w", err)
			}
			md := feed.LoadMetadataFile(*metadataPath, logger)

			exec.Builder = catalog.NewBuilder(mapping, md, app.Inference(cfg))
			started := time.Now()
			rep, err := exec.Execute(ctx, products)
			if err != nil {
				return fmt.Errorf("run %s: %w", rep.RunID, err)
			}
			logger.Printf("iteration=%d took=%s %s", iteration, time.Since(started).Round(time.Millisecond), rep)
			failed = rep.UploadFailed > 0 || rep.DeleteFailed > 0
			return nil
		},
	}

	if err := r.Run(ctx); err != nil {
		logger.Printf("sync stopped: %v", err)
		return 1
	}
	if failed {
		logger.Printf("finished with per-item failures")
	}
	return 0
}
