package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ETAnderson/catalogsync/internal/app"
	"github.com/ETAnderson/catalogsync/internal/catalog"
	"github.com/ETAnderson/catalogsync/internal/config"
	"github.com/ETAnderson/catalogsync/internal/domain"
	"github.com/ETAnderson/catalogsync/internal/execute"
	"github.com/ETAnderson/catalogsync/internal/logging"
	"github.com/ETAnderson/catalogsync/internal/worker"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred closes (cache store, event
// publisher) always execute.
func run(args []string) int {
	fs := flag.NewFlagSet("delete-offers", flag.ContinueOnError)
	var (
		file   = fs.String("file", "", "file with one offer id per line")
		all    = fs.Bool("all", false, "delete every cached offer")
		dryRun = fs.Bool("dry-run", false, "log intended deletes and leave the cache untouched")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	logger := logging.NewStdLogger("delete-offers ")

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

	ids, err := collectIDs(fs.Args(), *file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if *all {
		recs, err := store.LoadAll(ctx)
		if err != nil {
			logger.Printf("cache load failed: %v", err)
			return 1
		}
		for id := range recs {
			ids = append(ids, id)
		}
	}
	ids = uniqueSorted(ids)
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "usage: delete-offers [-dry-run] (-all | -file ids.txt | offer-id...)")
		return 2
	}

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

	stop := worker.NewStopToken(cfg.StopGrace)
	unwatch := app.WatchSignals(stop, logger, os.Exit)
	defer unwatch()

	exec := execute.Executor{
		Builder:   catalog.NewBuilder(mapping, domain.Metadata{}, app.Inference(cfg)),
		Store:     store,
		Client:    client,
		AccountID: cfg.MerchantID,
		DryRun:    *dryRun,
		Stop:      stop,
		Logger:    logger,
		Events:    pub,
	}

	logger.Printf("deleting %d offers dry_run=%v", len(ids), *dryRun)
	rep, err := exec.DeleteOffers(ctx, ids)
	if err != nil {
		logger.Printf("delete stopped: %v", err)
		return 1
	}
	logger.Printf("%s", rep)
	return 0
}

func collectIDs(args []string, path string) ([]string, error) {
	ids := append([]string(nil), args...)
	if path == "" {
		return ids, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open id file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read id file: %w", err)
	}
	return ids, nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
