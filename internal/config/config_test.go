package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.RunRateLimit)

	opts := cfg.SegmentationOptions()
	assert.Equal(t, time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC), opts.CutoffDate)
	assert.Equal(t, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC), opts.ReferenceDate)
	assert.Equal(t, 7, opts.ActivityThreshold)
	assert.Equal(t, 28, opts.NewCustomerDays)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEGMENT_CUTOFF_DATE", "2023-02-01")
	t.Setenv("SEGMENT_ACTIVITY_THRESHOLD", "3")
	t.Setenv("RUN_RATE_LIMIT", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, 2, cfg.RunRateLimit)
	opts := cfg.SegmentationOptions()
	assert.Equal(t, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), opts.CutoffDate)
	assert.Equal(t, 3, opts.ActivityThreshold)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SEGMENT_CUTOFF_DATE":        "05/01/2023",
		"SEGMENT_ACTIVITY_THRESHOLD": "seven",
		"SEGMENT_NEW_CUSTOMER_DAYS":  "-1",
		"LOG_LEVEL":                  "verbose",
		"JWT_SECRET":                 "short",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
