package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env string `env:"ENV" default:"dev"`

	// Remote catalog
	MerchantID        string        `env:"MERCHANT_ID" default:""`
	GoogleCredentials string        `env:"GOOGLE_CREDENTIALS_FILE" default:""`
	GoogleAccessToken string        `env:"GOOGLE_ACCESS_TOKEN" default:""`
	GoogleAPIBaseURL  string        `env:"GOOGLE_API_BASE_URL" default:"https://shoppingcontent.googleapis.com"`
	APIRatePerSec     float64       `env:"API_RATE_PER_SEC" default:"5"`
	APITimeout        time.Duration `env:"API_TIMEOUT" default:"30s"`
	APIMaxAttempts    int           `env:"API_MAX_ATTEMPTS" default:"3"`

	// Variant mapping
	StoreBaseURL         string   `env:"STORE_BASE_URL" default:"https://www.example.com"`
	AssetBaseURL         string   `env:"ASSET_BASE_URL" default:"STORE_BASE_URL"`
	ProductPathTemplate  string   `env:"PRODUCT_PATH_TEMPLATE" default:"/product/{id}/{nameSlug}"`
	ContentLanguage      string   `env:"CONTENT_LANGUAGE" default:"en"`
	TargetCountry        string   `env:"TARGET_COUNTRY" default:"US"`
	Channel              string   `env:"CHANNEL" default:"online"`
	PriceCurrency        string   `env:"PRICE_CURRENCY" default:"USD"`
	DefaultAvailability  string   `env:"DEFAULT_AVAILABILITY" default:"in stock"`
	DefaultCondition     string   `env:"DEFAULT_CONDITION" default:"new"`
	DefaultCategory      string   `env:"DEFAULT_CATEGORY" default:"Apparel & Accessories > Clothing"`
	PreferredImageSizeID string   `env:"PREFERRED_IMAGE_SIZE_ID" default:""`
	ExcludedSizes        []string `env:"EXCLUDED_SIZES" default:"3XL,4XL,5XL,6XL,XXXL,XXXXL"`

	// Demographic inference
	DefaultGender        string `env:"DEFAULT_GENDER" default:"unisex"`
	DefaultAgeGroup      string `env:"DEFAULT_AGE_GROUP" default:"adult"`
	KidsDefaultGender    string `env:"KIDS_DEFAULT_GENDER" default:"unisex"`
	InferFromDescription bool   `env:"INFER_FROM_DESCRIPTION" default:"false"`

	// Inputs
	FeedPath     string `env:"FEED_PATH" default:"data/feed.xml"`
	MetadataPath string `env:"METADATA_PATH" default:"data/metadata.xml"`

	// Sync cache
	CacheBackend string `env:"CACHE_BACKEND" default:"sqlite"` // sqlite | mysql | pebble | memory
	CachePath    string `env:"CACHE_PATH" default:"data/sync-cache.db"`
	MySQLDSN     string `env:"DB_DSN" default:""` // required when CACHE_BACKEND=mysql

	MigrationsDir string `env:"MIGRATIONS_DIR" default:""` // empty uses the bundled migrations

	// Observability
	MetricsAddr       string `env:"METRICS_ADDR" default:""`
	EventsFile        string `env:"EVENTS_FILE" default:""`
	EventsKafkaBroker string `env:"EVENTS_KAFKA_BROKERS" default:""`
	EventsKafkaTopic  string `env:"EVENTS_KAFKA_TOPIC" default:"catalogsync.events"`

	StopGrace time.Duration `env:"STOP_GRACE" default:"3s"`
}

func Load() Config {
	_ = godotenv.Load()

	store := getenv("STORE_BASE_URL", "https://www.example.com")
	cfg := Config{
		Env: getenv("ENV", "dev"),

		MerchantID:        getenv("MERCHANT_ID", ""),
		GoogleCredentials: getenv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleAccessToken: getenv("GOOGLE_ACCESS_TOKEN", ""),
		GoogleAPIBaseURL:  getenv("GOOGLE_API_BASE_URL", "https://shoppingcontent.googleapis.com"),
		APIRatePerSec:     getenvFloat("API_RATE_PER_SEC", 5),
		APITimeout:        getenvDuration("API_TIMEOUT", 30*time.Second),
		APIMaxAttempts:    getenvInt("API_MAX_ATTEMPTS", 3),

		StoreBaseURL:         store,
		AssetBaseURL:         getenv("ASSET_BASE_URL", store),
		ProductPathTemplate:  getenv("PRODUCT_PATH_TEMPLATE", "/product/{id}/{nameSlug}"),
		ContentLanguage:      getenv("CONTENT_LANGUAGE", "en"),
		TargetCountry:        getenv("TARGET_COUNTRY", "US"),
		Channel:              getenv("CHANNEL", "online"),
		PriceCurrency:        getenv("PRICE_CURRENCY", "USD"),
		DefaultAvailability:  getenv("DEFAULT_AVAILABILITY", "in stock"),
		DefaultCondition:     getenv("DEFAULT_CONDITION", "new"),
		DefaultCategory:      getenv("DEFAULT_CATEGORY", "Apparel & Accessories > Clothing"),
		PreferredImageSizeID: getenv("PREFERRED_IMAGE_SIZE_ID", ""),
		ExcludedSizes:        getenvList("EXCLUDED_SIZES", []string{"3XL", "4XL", "5XL", "6XL", "XXXL", "XXXXL"}),

		DefaultGender:        getenv("DEFAULT_GENDER", "unisex"),
		DefaultAgeGroup:      getenv("DEFAULT_AGE_GROUP", "adult"),
		KidsDefaultGender:    getenv("KIDS_DEFAULT_GENDER", "unisex"),
		InferFromDescription: getenvBool("INFER_FROM_DESCRIPTION", false),

		FeedPath:     getenv("FEED_PATH", "data/feed.xml"),
		MetadataPath: getenv("METADATA_PATH", "data/metadata.xml"),

		CacheBackend: getenv("CACHE_BACKEND", "sqlite"),
		CachePath:    getenv("CACHE_PATH", "data/sync-cache.db"),
		MySQLDSN:     getenv("DB_DSN", ""),

		MigrationsDir: getenv("MIGRATIONS_DIR", ""),

		MetricsAddr:       getenv("METRICS_ADDR", ""),
		EventsFile:        getenv("EVENTS_FILE", ""),
		EventsKafkaBroker: getenv("EVENTS_KAFKA_BROKERS", ""),
		EventsKafkaTopic:  getenv("EVENTS_KAFKA_TOPIC", "catalogsync.events"),

		StopGrace: getenvDuration("STOP_GRACE", 3*time.Second),
	}
	return cfg
}

// Validate reports every configuration problem at once. Remote credentials
// are only required when the run will actually call the catalog API.
func (c Config) Validate(dryRun bool) error {
	var errs []error

	if !dryRun {
		if strings.TrimSpace(c.MerchantID) == "" {
			errs = append(errs, errors.New("MERCHANT_ID is required"))
		}
		if c.GoogleCredentials == "" && c.GoogleAccessToken == "" {
			errs = append(errs, errors.New("GOOGLE_CREDENTIALS_FILE or GOOGLE_ACCESS_TOKEN is required"))
		}
	}

	switch strings.ToLower(c.Channel) {
	case "online", "local":
	default:
		errs = append(errs, fmt.Errorf("CHANNEL must be online or local, got %q", c.Channel))
	}
	if len(c.PriceCurrency) != 3 {
		errs = append(errs, fmt.Errorf("PRICE_CURRENCY must be a 3-letter code, got %q", c.PriceCurrency))
	}

	switch strings.ToLower(c.CacheBackend) {
	case "sqlite", "pebble":
		if strings.TrimSpace(c.CachePath) == "" {
			errs = append(errs, fmt.Errorf("CACHE_PATH is required when CACHE_BACKEND=%s", c.CacheBackend))
		}
	case "mysql":
		if strings.TrimSpace(c.MySQLDSN) == "" {
			errs = append(errs, errors.New("DB_DSN is required when CACHE_BACKEND=mysql"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend))
	}

	if c.APIMaxAttempts < 1 {
		errs = append(errs, errors.New("API_MAX_ATTEMPTS must be at least 1"))
	}

	return errors.Join(errs...)
}

func getenv(key string, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getenv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getenvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getenv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getenv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getenvList(key string, fallback []string) []string {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
