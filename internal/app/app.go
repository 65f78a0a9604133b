// Package app wires configuration into the sync components shared by the
// command-line tools.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ETAnderson/catalogsync/internal/catalog"
	"github.com/ETAnderson/catalogsync/internal/channels"
	"github.com/ETAnderson/catalogsync/internal/channels/dryrun"
	"github.com/ETAnderson/catalogsync/internal/channels/google"
	"github.com/ETAnderson/catalogsync/internal/config"
	"github.com/ETAnderson/catalogsync/internal/domain"
	"github.com/ETAnderson/catalogsync/internal/events"
	"github.com/ETAnderson/catalogsync/internal/metrics"
	"github.com/ETAnderson/catalogsync/internal/state"
	"github.com/ETAnderson/catalogsync/internal/worker"
)

type Logger interface {
	Printf(format string, v ...any)
}

// ExitForced is the process exit code after a forced interrupt.
const ExitForced = 130

func Mapping(cfg config.Config) (catalog.Mapping, error) {
	ch, ok := domain.ParseChannel(cfg.Channel)
	if !ok {
		return catalog.Mapping{}, fmt.Errorf("unknown channel %q", cfg.Channel)
	}

	m := catalog.DefaultMapping()
	m.StoreBaseURL = cfg.StoreBaseURL
	m.AssetBaseURL = cfg.AssetBaseURL
	m.ProductPathTemplate = cfg.ProductPathTemplate
	m.ContentLanguage = cfg.ContentLanguage
	m.TargetCountry = cfg.TargetCountry
	m.Channel = ch
	m.Currency = cfg.PriceCurrency
	m.Availability = cfg.DefaultAvailability
	m.Condition = cfg.DefaultCondition
	m.DefaultCategory = cfg.DefaultCategory
	m.PreferredImageSizeID = cfg.PreferredImageSizeID
	if len(cfg.ExcludedSizes) > 0 {
		m.ExcludedSizes = cfg.ExcludedSizes
	}
	return m, nil
}

func Inference(cfg config.Config) catalog.InferenceConfig {
	inf := catalog.DefaultInference()
	if cfg.DefaultGender != "" {
		inf.DefaultGender = cfg.DefaultGender
	}
	if cfg.DefaultAgeGroup != "" {
		inf.DefaultAgeGroup = cfg.DefaultAgeGroup
	}
	if cfg.KidsDefaultGender != "" {
		inf.KidsDefaultGender = cfg.KidsDefaultGender
	}
	inf.IncludeDescription = cfg.InferFromDescription
	return inf
}

func OpenStore(ctx context.Context, cfg config.Config) (state.Store, error) {
	return state.NewStore(ctx, state.FactoryConfig{
		Backend:       cfg.CacheBackend,
		MySQLDSN:      cfg.MySQLDSN,
		Path:          cfg.CachePath,
		MigrationsDir: cfg.MigrationsDir,
	})
}

// Client picks the remote catalog client: "dryrun" when dryRun is set, the
// Google Content API otherwise.
func Client(cfg config.Config, dryRun bool, logger Logger) (channels.Client, error) {
	clients := []channels.Client{dryrun.New(logger)}

	if !dryRun {
		tokens, err := tokenSource(cfg)
		if err != nil {
			return nil, err
		}
		clients = append(clients, google.NewClient(google.Config{
			BaseURL:     cfg.GoogleAPIBaseURL,
			Timeout:     cfg.APITimeout,
			RatePerSec:  cfg.APIRatePerSec,
			MaxAttempts: cfg.APIMaxAttempts,
		}, tokens))
	}

	name := "google"
	if dryRun {
		name = "dryrun"
	}
	c, ok := channels.NewRegistry(clients...).Get(name)
	if !ok {
		return nil, fmt.Errorf("no catalog client %q", name)
	}
	return c, nil
}

func tokenSource(cfg config.Config) (google.TokenSource, error) {
	if cfg.GoogleAccessToken != "" {
		return google.StaticToken(cfg.GoogleAccessToken), nil
	}
	if cfg.GoogleCredentials == "" {
		return nil, errors.New("no google credentials configured")
	}
	sa, err := google.LoadServiceAccountFile(cfg.GoogleCredentials)
	if err != nil {
		return nil, err
	}
	return google.NewJWTTokenSource(sa, &http.Client{Timeout: cfg.APITimeout})
}

// Publisher fans sync events out to every configured sink.
func Publisher(cfg config.Config) (events.Publisher, error) {
	var pubs []events.Publisher
	if cfg.EventsFile != "" {
		fw, err := events.NewFileWriter(cfg.EventsFile)
		if err != nil {
			return nil, fmt.Errorf("events file: %w", err)
		}
		pubs = append(pubs, fw)
	}
	if cfg.EventsKafkaBroker != "" {
		pubs = append(pubs, events.NewKafkaPublisher(cfg.EventsKafkaBroker, cfg.EventsKafkaTopic))
	}

	switch len(pubs) {
	case 0:
		return events.Nop{}, nil
	case 1:
		return pubs[0], nil
	default:
		return events.NewMulti(pubs...), nil
	}
}

// ServeMetrics exposes /metrics on addr in the background. It returns nil when
// addr is empty.
func ServeMetrics(addr string, reg *metrics.Registry, logger Logger) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Printf("metrics listening on %s", addr)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Printf("metrics server error: %v", err)
		}
	}()

	return server
}

// WatchSignals feeds SIGINT/SIGTERM into stop. The first interrupt asks for a
// graceful stop; once the token is force-armed, another one calls exit.
// The returned func stops watching.
func WatchSignals(stop *worker.StopToken, logger Logger, exit func(code int)) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-sigCh:
				switch stop.Signal() {
				case worker.ActionStop:
					logger.Printf("stop requested; finishing current item (interrupt again after the grace period to force exit)")
				case worker.ActionIgnore:
					logger.Printf("already stopping")
				case worker.ActionForceExit:
					logger.Printf("forced exit")
					exit(ExitForced)
				}
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
