package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ETAnderson/catalogsync/internal/config"
	"github.com/ETAnderson/catalogsync/internal/domain"
	"github.com/ETAnderson/catalogsync/internal/events"
	"github.com/ETAnderson/catalogsync/internal/metrics"
)

func baseConfig() config.Config {
	return config.Config{
		StoreBaseURL:        "https://shop.test",
		AssetBaseURL:        "https://cdn.test",
		ProductPathTemplate: "/p/{code}",
		ContentLanguage:     "de",
		TargetCountry:       "DE",
		Channel:             "local",
		PriceCurrency:       "EUR",
		ExcludedSizes:       []string{"XS"},
		DefaultGender:       "female",
		CacheBackend:        "memory",
	}
}

func TestMapping(t *testing.T) {
	m, err := Mapping(baseConfig())
	if err != nil {
		t.Fatalf("mapping: %v", err)
	}
	if m.Channel != domain.ChannelLocal || m.Currency != "EUR" || m.AssetBaseURL != "https://cdn.test" {
		t.Fatalf("unexpected mapping: %+v", m)
	}
	if len(m.ExcludedSizes) != 1 || m.ExcludedSizes[0] != "XS" {
		t.Fatalf("expected excluded sizes from config, got %v", m.ExcludedSizes)
	}

	cfg := baseConfig()
	cfg.Channel = "store"
	if _, err := Mapping(cfg); err == nil {
		t.Fatalf("expected error for unknown channel")
	}
}

func TestInference(t *testing.T) {
	cfg := baseConfig()
	cfg.InferFromDescription = true

	inf := Inference(cfg)
	if inf.DefaultGender != "female" || !inf.IncludeDescription {
		t.Fatalf("unexpected inference config: %+v", inf)
	}
	if inf.DefaultAgeGroup != "adult" {
		t.Fatalf("expected default age group to stay adult, got %q", inf.DefaultAgeGroup)
	}
}

func TestClient(t *testing.T) {
	c, err := Client(baseConfig(), true, nil)
	if err != nil {
		t.Fatalf("dry-run client: %v", err)
	}
	if c.Name() != "dryrun" {
		t.Fatalf("expected dryrun client, got %s", c.Name())
	}

	if _, err := Client(baseConfig(), false, nil); err == nil {
		t.Fatalf("expected error without credentials")
	}

	cfg := baseConfig()
	cfg.GoogleAccessToken = "tok"
	c, err = Client(cfg, false, nil)
	if err != nil {
		t.Fatalf("google client: %v", err)
	}
	if c.Name() != "google" {
		t.Fatalf("expected google client, got %s", c.Name())
	}
}

func TestPublisher(t *testing.T) {
	p, err := Publisher(baseConfig())
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if _, ok := p.(events.Nop); !ok {
		t.Fatalf("expected Nop publisher, got %T", p)
	}

	cfg := baseConfig()
	cfg.EventsFile = filepath.Join(t.TempDir(), "events.ndjson")
	p, err = Publisher(cfg)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if _, ok := p.(*events.FileWriter); !ok {
		t.Fatalf("expected file publisher, got %T", p)
	}
}

func TestOpenStore(t *testing.T) {
	cfg := baseConfig()
	cfg.CacheBackend = "sqlite"
	cfg.CachePath = filepath.Join(t.TempDir(), "nested", "cache.db")

	st, err := OpenStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	recs, err := st.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty cache, got %d", len(recs))
	}
}

func TestServeMetrics_EmptyAddr(t *testing.T) {
	if srv := ServeMetrics("", metrics.NewRegistry(), nil); srv != nil {
		t.Fatalf("expected no server for empty addr")
	}
}
