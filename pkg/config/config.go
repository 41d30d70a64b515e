package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	ReviewAPI ReviewAPIConfig
	Reviewer  ReviewerConfig
	Media     MediaConfig
	Sync      SyncConfig
	Store     StoreConfig
	Redis     RedisConfig
	Catalog   CatalogConfig
	Storage   StorageConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	PublicOrigin    string   `envconfig:"PUBLIC_ORIGIN" default:"http://localhost:3000"` // used for share links
}

// ReviewAPIConfig points at the external comment/media service
type ReviewAPIConfig struct {
	BaseURL string        `envconfig:"BASE_URL"`
	Token   string        `envconfig:"TOKEN"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`
}

// ReviewerConfig identifies the reviewer this host runs for
type ReviewerConfig struct {
	Profile  string `envconfig:"PROFILE" default:"default"`
	Username string `envconfig:"USERNAME"`
}

// MediaConfig holds asset URL conventions
type MediaConfig struct {
	BaseURL    string `envconfig:"BASE_URL" default:"https://naveon-video-storage.s3.amazonaws.com"`
	ViewerPath string `envconfig:"VIEWER_PATH" default:"/pdf-viewer/viewer.html"`
}

// SyncConfig holds timer settings for polling and playback correlation
type SyncConfig struct {
	PollInterval    time.Duration `envconfig:"POLL_INTERVAL" default:"3s"`
	QuietAfter      int           `envconfig:"QUIET_AFTER" default:"5"`
	CaptionRate     time.Duration `envconfig:"CAPTION_RATE" default:"200ms"`
	ScrollDelay     time.Duration `envconfig:"SCROLL_DELAY" default:"150ms"`
	ProximityWindow float64       `envconfig:"PROXIMITY_WINDOW" default:"1"`
}

// StoreConfig selects the durable per-reviewer state backend
type StoreConfig struct {
	Backend string `envconfig:"BACKEND" default:"memory"` // memory, redis, postgres, sqlite
	DSN     string `envconfig:"DSN"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// CatalogConfig selects where the asset list comes from
type CatalogConfig struct {
	Source string `envconfig:"SOURCE" default:"api"` // api or bucket
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"ACCESS_KEY"`
	SecretAccessKey string `envconfig:"SECRET_KEY"`
	BucketName      string `envconfig:"BUCKET" default:"naveon-video-storage"`
	PublicURL       string `envconfig:"PUBLIC_URL"`
	UseSSL          bool   `envconfig:"USE_SSL" default:"true"`
}

// sections maps each config section to its environment prefix
func (c *Config) sections() []struct {
	prefix string
	spec   interface{}
} {
	return []struct {
		prefix string
		spec   interface{}
	}{
		{"", &c.Server},
		{"REVIEW_API", &c.ReviewAPI},
		{"REVIEWER", &c.Reviewer},
		{"MEDIA", &c.Media},
		{"SYNC", &c.Sync},
		{"STORE", &c.Store},
		{"REDIS", &c.Redis},
		{"CATALOG", &c.Catalog},
		{"STORAGE", &c.Storage},
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	for _, s := range config.sections() {
		if err := envconfig.Process(s.prefix, s.spec); err != nil {
			return nil, fmt.Errorf("failed to read %s config: %w", strings.ToLower(s.prefix), err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ReviewAPI.BaseURL) == "" {
		return fmt.Errorf("REVIEW_API_BASE_URL is required")
	}
	if c.Sync.PollInterval <= 0 {
		return fmt.Errorf("SYNC_POLL_INTERVAL must be positive")
	}
	if c.Sync.QuietAfter <= 0 {
		return fmt.Errorf("SYNC_QUIET_AFTER must be positive")
	}
	if c.Sync.CaptionRate <= 0 {
		return fmt.Errorf("SYNC_CAPTION_RATE must be positive")
	}
	switch c.Store.Backend {
	case "memory", "redis":
	case "postgres", "sqlite":
		if c.Store.DSN == "" {
			return fmt.Errorf("STORE_DSN is required for %s store", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Catalog.Source {
	case "api", "bucket":
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}
	return nil
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
