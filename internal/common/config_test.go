package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"S3_ENDPOINT_URL", "S3_DEFAULT_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
		"S3_USE_SSL", "S3_BUCKET", "POLL_INTERVAL", "TARGET_COLUMNS",
		"JOURNAL_PATH", "DROP_DIR", "METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "us-east-1", cfg.Store.Region)
	assert.Equal(t, "invoices", cfg.Store.Bucket)
	assert.False(t, cfg.Store.UseSSL)
	assert.Equal(t, 3*time.Second, cfg.Poller.Interval)
	assert.Equal(t, []string{"Description", "Gross worth"}, cfg.Extract.TargetColumns)
	assert.Empty(t, cfg.Journal.Path)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadConfigTargetColumnsTrimmed(t *testing.T) {
	t.Setenv("TARGET_COLUMNS", " Description , Net worth ,, Qty ")

	cfg := LoadConfig()
	assert.Equal(t, []string{"Description", "Net worth", "Qty"}, cfg.Extract.TargetColumns)
}

func TestLoadConfigPollInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "10")

	cfg := LoadConfig()
	assert.Equal(t, 10*time.Second, cfg.Poller.Interval)
}

func TestValidateRequiresStoreSettings(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store: StoreConfig{
				EndpointURL: "http://localhost:9000",
				AccessKey:   "ak",
				SecretKey:   "sk",
			},
			Poller:  PollerConfig{Interval: time.Second},
			Extract: ExtractConfig{TargetColumns: []string{"Description"}},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing endpoint", func(c *Config) { c.Store.EndpointURL = "" }},
		{"missing access key", func(c *Config) { c.Store.AccessKey = "" }},
		{"missing secret key", func(c *Config) { c.Store.SecretKey = "" }},
		{"non-positive interval", func(c *Config) { c.Poller.Interval = 0 }},
		{"no target columns", func(c *Config) { c.Extract.TargetColumns = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
