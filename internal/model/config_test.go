package model_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-insights/internal/model"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), cfg)
}

func TestLoadConfigOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/tasks.db
analytics:
  timezone: America/New_York
`), 0o644))

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tasks.db", cfg.Database.Path)
	assert.Equal(t, "America/New_York", cfg.Analytics.Timezone)
	assert.Equal(t, "tasks_dataset.csv", cfg.Export.Path)
	assert.Equal(t, "127.0.0.1:8085", cfg.Server.Addr)

	loc, err := cfg.Analytics.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoadConfigRejectsUnknownTimezone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analytics:\n  timezone: Mars/Olympus\n"), 0o644))

	_, err := model.LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := model.DefaultAppConfig()
	cfg.Analytics.Timezone = "UTC"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}

	require.NoError(t, model.SaveConfig(path, cfg))

	loaded, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLocalTimezone(t *testing.T) {
	loc, err := model.AnalyticsConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want model.Priority
		ok   bool
	}{
		{"High", model.PriorityHigh, true},
		{" medium ", model.PriorityMedium, true},
		{"LOW", model.PriorityLow, true},
		{"urgent", "", false},
	}
	for _, tt := range tests {
		got, err := model.ParsePriority(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestPriorityEncodingAndRank(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, []int{model.PriorityLow.Code(), model.PriorityMedium.Code(), model.PriorityHigh.Code()})
	assert.Less(t, model.PriorityHigh.Rank(), model.PriorityMedium.Rank())
	assert.Less(t, model.PriorityMedium.Rank(), model.PriorityLow.Rank())
	assert.Equal(t, -1, model.Priority("urgent").Code())
}
