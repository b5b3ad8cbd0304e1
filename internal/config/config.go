package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"

	"github.com/jengzang/travel-segments-go/internal/segmentation"
)

// Config holds the application settings
type Config struct {
	Port      string `validate:"required"`
	DBPath    string `validate:"required"`
	JWTSecret string `validate:"required,min=16"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	ExportDir string `validate:"required"`

	// Segmentation defaults, overridable per run
	CutoffDate        string `validate:"datetime=2006-01-02"`
	ActivityThreshold int    `validate:"min=0"`
	ReferenceDate     string `validate:"datetime=2006-01-02"`
	NewCustomerDays   int    `validate:"min=0"`

	RunRateLimit int `validate:"min=1"` // run creations per minute and client
}

var validate = validator.New()

// Load reads settings from the environment, after loading a .env file when
// one exists
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "failed to load .env")
	}

	defaults := segmentation.DefaultOptions()
	cfg := &Config{
		Port:              getEnv("PORT", ":8080"),
		DBPath:            getEnv("DB_PATH", "./data/travel.db"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ExportDir:         getEnv("EXPORT_DIR", "./reports"),
		CutoffDate:        getEnv("SEGMENT_CUTOFF_DATE", defaults.CutoffDate.Format(segmentation.DateLayout)),
		ReferenceDate:     getEnv("SEGMENT_REFERENCE_DATE", defaults.ReferenceDate.Format(segmentation.DateLayout)),
		ActivityThreshold: defaults.ActivityThreshold,
		NewCustomerDays:   defaults.NewCustomerDays,
		RunRateLimit:      10,
	}

	var err error
	if cfg.ActivityThreshold, err = getEnvInt("SEGMENT_ACTIVITY_THRESHOLD", cfg.ActivityThreshold); err != nil {
		return nil, err
	}
	if cfg.NewCustomerDays, err = getEnvInt("SEGMENT_NEW_CUSTOMER_DAYS", cfg.NewCustomerDays); err != nil {
		return nil, err
	}
	if cfg.RunRateLimit, err = getEnvInt("RUN_RATE_LIMIT", cfg.RunRateLimit); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, eris.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// SegmentationOptions converts the configured defaults into pipeline options
func (c *Config) SegmentationOptions() segmentation.Options {
	// Both dates passed validation
	cutoff, _ := time.Parse(segmentation.DateLayout, c.CutoffDate)
	reference, _ := time.Parse(segmentation.DateLayout, c.ReferenceDate)
	return segmentation.Options{
		CutoffDate:        cutoff,
		ActivityThreshold: c.ActivityThreshold,
		ReferenceDate:     reference,
		NewCustomerDays:   c.NewCustomerDays,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, eris.Wrapf(err, "%s must be an integer", key)
	}
	return n, nil
}
