package app

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/campusthreads/merch-store/internal/domain/product"
)

// Config holds the complete application configuration, loadable from
// environment variables (MERCH_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (MERCH_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Store       StoreConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// StoreConfig controls the catalog and pricing rules of the storefront.
type StoreConfig struct {
	Categories    string `default:"hoodie,beanie,shirt,trackpants" usage:"Comma-separated product categories"`
	Colors        string `default:"green,black,yellow,white" usage:"Comma-separated orderable colors"`
	EmbroideryFee string `default:"8" usage:"Per-unit embroidery fee" flag:"embroidery-fee"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "MERCH",
		Files:     []string{"config.yaml", "/etc/merch/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set MERCH_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's MERCH_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}

// CategorySet parses the configured category list.
func (c StoreConfig) CategorySet() product.CategorySet {
	return product.NewCategorySet(splitList[product.Category](c.Categories)...)
}

// Palette parses the configured color list.
func (c StoreConfig) Palette() product.Palette {
	return product.NewPalette(splitList[product.Color](c.Colors)...)
}

// Fee parses the configured embroidery fee.
func (c StoreConfig) Fee() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(c.EmbroideryFee))
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "parse embroidery fee %q", c.EmbroideryFee)
	}
	if fee.IsNegative() {
		return decimal.Decimal{}, errors.Errorf("embroidery fee must be >= 0, got %s", fee)
	}
	return fee, nil
}

func splitList[T ~string](s string) []T {
	parts := strings.Split(s, ",")
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, T(p))
		}
	}
	return out
}
