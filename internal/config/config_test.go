package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate moves the test into an empty working directory and home so the
// config cascade finds no files.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "statsgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "stats.events_local", cfg.Output.Table)
	assert.Equal(t, 50000, cfg.Output.Rows)
	assert.Equal(t, 180, cfg.Window.Days)
	assert.Equal(t, 90, cfg.Window.BackStepDays)
	assert.Equal(t, 90, cfg.Window.LookbackDays)
	assert.Empty(t, cfg.Window.Start)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Len(t, cfg.Domains.EventTypes, 9)
	assert.Equal(t, []string{"RU", "US", "GB", "CN", "DE"}, cfg.Domains.Countries)
	assert.Equal(t, int64(1000000000), cfg.Domains.PriceScale)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
output:
  rows: 100
domains:
  countries: [US]
  delay:
    max: 10
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Output.Rows)
	assert.Equal(t, "stats.events_local", cfg.Output.Table, "unset keys keep their defaults")
	assert.Equal(t, []string{"US"}, cfg.Domains.Countries)
	assert.Equal(t, Range{Min: 0, Max: 10}, cfg.Domains.Delay)
	assert.Equal(t, Default().Domains.EventTypes, cfg.Domains.EventTypes)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
output:
  table: demo.events
window:
  days: 30
  back_step_days: 40
  start: "2024-01-15"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo.events", cfg.Output.Table)
	assert.Equal(t, 30, cfg.Window.Days)
	assert.Equal(t, 40, cfg.Window.BackStepDays)
	assert.Equal(t, "2024-01-15", cfg.Window.Start)
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "output:\n  rows: 100\n")
	t.Setenv("STATSGEN_OUTPUT_ROWS", "42")
	t.Setenv("STATSGEN_OUTPUT_TABLE", "env.events")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.Output.Rows)
	assert.Equal(t, "env.events", cfg.Output.Table)
}

func TestLoad_EnvOverridesExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "output:\n  rows: 7\n")
	t.Setenv("STATSGEN_OUTPUT_ROWS", "11")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.Output.Rows)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "output:\n  rows: -1\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.rows")
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "output: [rows\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{"empty table", func(c *Config) { c.Output.Table = "" }, "output.table"},
		{"zero rows", func(c *Config) { c.Output.Rows = 0 }, "output.rows"},
		{"zero window", func(c *Config) { c.Window.Days = 0 }, "window.days"},
		{"negative back step", func(c *Config) { c.Window.BackStepDays = -1 }, "window.back_step_days"},
		{"negative lookback", func(c *Config) { c.Window.LookbackDays = -1 }, "window.lookback_days"},
		{"bad start", func(c *Config) { c.Window.Start = "yesterday" }, "window.start"},
		{"inverted range", func(c *Config) { c.Domains.AdWidth = Range{Min: 500, Max: 100} }, "domains.ad_width"},
		{"no categories", func(c *Config) { c.Domains.CategoryCount = Range{Min: 0, Max: 3} }, "domains.category_count"},
		{"zero price scale", func(c *Config) { c.Domains.PriceScale = 0 }, "domains.price_scale"},
		{"price overflow", func(c *Config) { c.Domains.PriceScale = 1 << 62 }, "overflows int64"},
		{"negative price overflow", func(c *Config) {
			c.Domains.Price = Range{Min: -100, Max: 1}
			c.Domains.PriceScale = 1 << 60
		}, "overflows int64"},
		{"window too long", func(c *Config) { c.Window.Days = MaxWindowDays + 1 }, "window.days"},
		{"back step too long", func(c *Config) { c.Window.BackStepDays = MaxWindowDays + 1 }, "window.back_step_days"},
		{"latitude out of bounds", func(c *Config) { c.Domains.Latitude.Max = 91 }, "domains.latitude"},
		{"longitude out of bounds", func(c *Config) { c.Domains.Longitude.Min = -181 }, "domains.longitude"},
		{"no event types", func(c *Config) { c.Domains.EventTypes = []string{} }, "domains.event_types"},
		{"no auction types", func(c *Config) { c.Domains.AuctionTypes = nil }, "domains.auction_types"},
		{"no platform types", func(c *Config) { c.Domains.PlatformTypes = nil }, "domains.platform_types"},
		{"no countries", func(c *Config) { c.Domains.Countries = nil }, "domains.countries"},
		{"quoted country", func(c *Config) { c.Domains.Countries = []string{"O'K"} }, "single quote"},
		{"quoted user agent", func(c *Config) { c.Domains.UserAgent = "it's me" }, "single quote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Limits(t *testing.T) {
	cfg := Default()
	cfg.Window.Days = MaxWindowDays
	cfg.Window.BackStepDays = MaxWindowDays
	cfg.Domains.Price = Range{Min: 1, Max: 9}
	cfg.Domains.PriceScale = math.MaxInt64 / 9

	assert.NoError(t, cfg.Validate())
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("lookback from now", func(t *testing.T) {
		cfg := Default()
		start, err := cfg.WindowStart(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), start)
	})

	t.Run("date", func(t *testing.T) {
		cfg := Default()
		cfg.Window.Start = "2024-01-15"
		start, err := cfg.WindowStart(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), start)
	})

	t.Run("rfc3339", func(t *testing.T) {
		cfg := Default()
		cfg.Window.Start = "2024-01-15T08:30:00Z"
		start, err := cfg.WindowStart(now)
		require.NoError(t, err)
		assert.True(t, start.Equal(time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)))
	})

	t.Run("invalid", func(t *testing.T) {
		cfg := Default()
		cfg.Window.Start = "15/01/2024"
		_, err := cfg.WindowStart(now)
		assert.Error(t, err)
	})
}

func TestSave(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "statsgen.yaml")

	cfg := Default()
	cfg.Output.Rows = 123
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_DefaultPath(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, Default().Save(""))

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".statsgen", "statsgen.yaml"), path)
	assert.FileExists(t, path)
}
