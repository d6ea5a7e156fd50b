package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/fuel-price-page/internal/fuel"
)

// Publish targets.
const (
	PublishMemory = "memory"
	PublishDir    = "file"
	PublishAzure  = "azblob"
)

type AppConfig struct {
	// RefreshInterval controls how often the page is rebuilt and published.
	RefreshInterval time.Duration
	// PriceCacheTTL is how long a fetched price record is served from cache.
	PriceCacheTTL time.Duration

	// HTTPTimeout bounds a single request to the price source.
	HTTPTimeout time.Duration
	// RefreshTimeout bounds a whole refresh run.
	RefreshTimeout time.Duration

	SourceBaseURL string

	// Airports on the page, in display order.
	Airports []fuel.Airport

	PublishTarget    string
	PublishDir       string
	StorageConnStr   string
	PublishContainer string

	// Price history. HistoryDB empty keeps history in memory.
	HistoryDB         string
	HistoryMaxEntries int           // max records per airport (0 = unlimited)
	HistoryMaxAge     time.Duration // max age of records (0 = unlimited)

	// AdminAPIKey protects the API routes; empty leaves them open.
	AdminAPIKey string

	Port string
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	var err error
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "6h"); err != nil {
		return nil, err
	}
	if cfg.PriceCacheTTL, err = getenvDuration("PRICE_CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.RefreshTimeout, err = getenvDuration("REFRESH_TIMEOUT", "2m"); err != nil {
		return nil, err
	}
	if cfg.HistoryMaxAge, err = getenvDuration("HISTORY_MAX_AGE", "720h"); err != nil {
		return nil, err
	}

	cfg.SourceBaseURL = getenvDefault("SOURCE_BASE_URL", "https://www.spritpreisliste.de")
	cfg.HistoryDB = os.Getenv("HISTORY_DB")
	cfg.HistoryMaxEntries = getenvInt("HISTORY_MAX_ENTRIES", 500) // roughly four months at 6-hour refreshes
	cfg.AdminAPIKey = os.Getenv("ADMIN_API_KEY")
	cfg.Port = getenvDefault("PORT", "8080")

	// Azure Functions hosts expose the storage account as AzureWebJobsStorage.
	cfg.StorageConnStr = getenvDefault("AZURE_STORAGE_CONNECTION_STRING", os.Getenv("AzureWebJobsStorage"))
	cfg.PublishContainer = getenvDefault("PUBLISH_CONTAINER", "$web")
	cfg.PublishDir = getenvDefault("PUBLISH_DIR", "public")
	cfg.PublishTarget = strings.ToLower(getenvDefault("PUBLISH_TARGET", PublishMemory))
	switch cfg.PublishTarget {
	case PublishMemory, PublishDir:
	case PublishAzure:
		if cfg.StorageConnStr == "" {
			return nil, fmt.Errorf("PUBLISH_TARGET=%s requires AZURE_STORAGE_CONNECTION_STRING or AzureWebJobsStorage", PublishAzure)
		}
	default:
		return nil, fmt.Errorf("invalid PUBLISH_TARGET %q", cfg.PublishTarget)
	}

	cfg.Airports = DefaultAirports()
	if path := os.Getenv("AIRPORTS_FILE"); path != "" {
		airports, err := LoadAirports(path)
		if err != nil {
			return nil, err
		}
		cfg.Airports = airports
	}

	return cfg, nil
}

// DefaultAirports is the roster of airfields where the club fleet can refuel
// on account.
func DefaultAirports() []fuel.Airport {
	return []fuel.Airport{
		{ICAO: "EDVE", Name: "Braunschweig"},
		{ICAO: "EDCB", Name: "Ballenstedt"},
		{ICAO: "EDAD", Name: "Dessau"},
		{ICAO: "ETND", Name: "Diepholz"},
		{ICAO: "EDVM", Name: "Hildesheim"},
		{ICAO: "EDVI", Name: "Höxter"},
		{ICAO: "EDBM", Name: "Magdeburg"},
		{ICAO: "EDVY", Name: "Porta Westfalica"},
		{ICAO: "EDOV", Name: "Stendal"},
	}
}

type airportsFile struct {
	Airports []fuel.Airport `yaml:"airports" validate:"required,min=1,dive"`
}

// LoadAirports reads a YAML roster:
//
//	airports:
//	  - icao: EDVE
//	    name: Braunschweig
func LoadAirports(path string) ([]fuel.Airport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read airports file: %w", err)
	}

	var f airportsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse airports file: %w", err)
	}
	for i := range f.Airports {
		f.Airports[i].ICAO = strings.ToUpper(strings.TrimSpace(f.Airports[i].ICAO))
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid airports file: %w", err)
	}

	seen := make(map[string]bool, len(f.Airports))
	for _, a := range f.Airports {
		if seen[a.ICAO] {
			return nil, fmt.Errorf("invalid airports file: duplicate ICAO %s", a.ICAO)
		}
		seen[a.ICAO] = true
	}
	return f.Airports, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
