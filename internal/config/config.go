// Package config loads statsgen settings from flags, files, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is prepended to every environment override (STATSGEN_OUTPUT_ROWS, ...).
	EnvPrefix = "STATSGEN"

	// MaxWindowDays bounds window.days and window.back_step_days so second and
	// nanosecond offsets stay inside int64.
	MaxWindowDays = 36500

	configName = "statsgen"
	userDir    = ".statsgen"
)

// Config represents the complete generator configuration
type Config struct {
	Version string        `mapstructure:"version" yaml:"version"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Window  WindowConfig  `mapstructure:"window" yaml:"window"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Domains DomainsConfig `mapstructure:"domains" yaml:"domains"`
}

// OutputConfig controls what gets emitted
type OutputConfig struct {
	Table string `mapstructure:"table" yaml:"table"`
	Rows  int    `mapstructure:"rows" yaml:"rows"`
}

// WindowConfig holds the time window settings.
//
// Days is the span the rows are spread over. BackStepDays shifts the relative
// time-step expressions into the past. Start pins the calendar window start
// (2006-01-02 or RFC3339); when empty the window starts LookbackDays before now.
type WindowConfig struct {
	Days         int    `mapstructure:"days" yaml:"days"`
	BackStepDays int    `mapstructure:"back_step_days" yaml:"back_step_days"`
	LookbackDays int    `mapstructure:"lookback_days" yaml:"lookback_days"`
	Start        string `mapstructure:"start" yaml:"start"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig holds metrics export configuration
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `mapstructure:"min" yaml:"min"`
	Max int `mapstructure:"max" yaml:"max"`
}

// FloatRange is an inclusive floating point interval.
type FloatRange struct {
	Min float64 `mapstructure:"min" yaml:"min"`
	Max float64 `mapstructure:"max" yaml:"max"`
}

// DomainsConfig describes the value domain of every generated column.
type DomainsConfig struct {
	Delay         Range      `mapstructure:"delay" yaml:"delay"`
	Duration      Range      `mapstructure:"duration" yaml:"duration"`
	EventTypes    []string   `mapstructure:"event_types" yaml:"event_types"`
	Status        Range      `mapstructure:"status" yaml:"status"`
	AuctionTypes  []int      `mapstructure:"auction_types" yaml:"auction_types"`
	ExternalID    Range      `mapstructure:"external_id" yaml:"external_id"`
	ReferenceID   Range      `mapstructure:"reference_id" yaml:"reference_id"`
	Network       Range      `mapstructure:"network" yaml:"network"`
	PlatformTypes []int      `mapstructure:"platform_types" yaml:"platform_types"`
	Domain        Range      `mapstructure:"domain" yaml:"domain"`
	AdWidth       Range      `mapstructure:"ad_width" yaml:"ad_width"`
	AdHeight      Range      `mapstructure:"ad_height" yaml:"ad_height"`
	URLSuffix     Range      `mapstructure:"url_suffix" yaml:"url_suffix"`
	PricingModel  Range      `mapstructure:"pricing_model" yaml:"pricing_model"`
	Price         Range      `mapstructure:"price" yaml:"price"`
	PriceScale    int64      `mapstructure:"price_scale" yaml:"price_scale"`
	TokenSuffix   Range      `mapstructure:"token_suffix" yaml:"token_suffix"`
	Countries     []string   `mapstructure:"countries" yaml:"countries"`
	Latitude      FloatRange `mapstructure:"latitude" yaml:"latitude"`
	Longitude     FloatRange `mapstructure:"longitude" yaml:"longitude"`
	Language      string     `mapstructure:"language" yaml:"language"`
	UserAgent     string     `mapstructure:"user_agent" yaml:"user_agent"`
	DeviceType    Range      `mapstructure:"device_type" yaml:"device_type"`
	CategoryCount Range      `mapstructure:"category_count" yaml:"category_count"`
	CategoryID    Range      `mapstructure:"category_id" yaml:"category_id"`
	PosX          Range      `mapstructure:"pos_x" yaml:"pos_x"`
	PosY          Range      `mapstructure:"pos_y" yaml:"pos_y"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Output: OutputConfig{
			Table: "stats.events_local",
			Rows:  50000,
		},
		Window: WindowConfig{
			Days:         180,
			BackStepDays: 90,
			LookbackDays: 90,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Domains: DomainsConfig{
			Delay:    Range{Min: 0, Max: 1000000},
			Duration: Range{Min: 0, Max: 1000000},
			EventTypes: []string{
				"impression", "click", "view", "direct",
				"src.win", "src.bid", "src.skip", "src.nobid", "src.fail",
			},
			Status:        Range{Min: 0, Max: 5},
			AuctionTypes:  []int{0, 1, 2, 3},
			ExternalID:    Range{Min: 1, Max: 1000},
			ReferenceID:   Range{Min: 1, Max: 10},
			Network:       Range{Min: 1, Max: 10},
			PlatformTypes: []int{0, 1, 2, 3, 4},
			Domain:        Range{Min: 1, Max: 10},
			AdWidth:       Range{Min: 100, Max: 1920},
			AdHeight:      Range{Min: 100, Max: 1080},
			URLSuffix:     Range{Min: 1, Max: 1000},
			PricingModel:  Range{Min: 0, Max: 3},
			Price:         Range{Min: 1, Max: 100},
			PriceScale:    1000000000,
			TokenSuffix:   Range{Min: 1, Max: 1000},
			Countries:     []string{"RU", "US", "GB", "CN", "DE"},
			Latitude:      FloatRange{Min: -90, Max: 90},
			Longitude:     FloatRange{Min: -180, Max: 180},
			Language:      "en_US",
			UserAgent:     "Mozilla/5.0",
			DeviceType:    Range{Min: 0, Max: 5},
			CategoryCount: Range{Min: 1, Max: 3},
			CategoryID:    Range{Min: 1, Max: 100},
			PosX:          Range{Min: 0, Max: 1920},
			PosY:          Range{Min: 0, Max: 1080},
		},
	}
}

// Load loads configuration with cascade: ./statsgen.yaml > ~/.statsgen/statsgen.yaml > defaults.
// Environment variables prefixed with STATSGEN_ override file values. An explicit
// configPath must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, userDir))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults mirrors Default() into viper so env overrides resolve for every key
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("version", d.Version)

	v.SetDefault("output.table", d.Output.Table)
	v.SetDefault("output.rows", d.Output.Rows)

	v.SetDefault("window.days", d.Window.Days)
	v.SetDefault("window.back_step_days", d.Window.BackStepDays)
	v.SetDefault("window.lookback_days", d.Window.LookbackDays)
	v.SetDefault("window.start", d.Window.Start)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("metrics.textfile", d.Metrics.Textfile)

	setRange(v, "domains.delay", d.Domains.Delay)
	setRange(v, "domains.duration", d.Domains.Duration)
	v.SetDefault("domains.event_types", d.Domains.EventTypes)
	setRange(v, "domains.status", d.Domains.Status)
	v.SetDefault("domains.auction_types", d.Domains.AuctionTypes)
	setRange(v, "domains.external_id", d.Domains.ExternalID)
	setRange(v, "domains.reference_id", d.Domains.ReferenceID)
	setRange(v, "domains.network", d.Domains.Network)
	v.SetDefault("domains.platform_types", d.Domains.PlatformTypes)
	setRange(v, "domains.domain", d.Domains.Domain)
	setRange(v, "domains.ad_width", d.Domains.AdWidth)
	setRange(v, "domains.ad_height", d.Domains.AdHeight)
	setRange(v, "domains.url_suffix", d.Domains.URLSuffix)
	setRange(v, "domains.pricing_model", d.Domains.PricingModel)
	setRange(v, "domains.price", d.Domains.Price)
	v.SetDefault("domains.price_scale", d.Domains.PriceScale)
	setRange(v, "domains.token_suffix", d.Domains.TokenSuffix)
	v.SetDefault("domains.countries", d.Domains.Countries)
	v.SetDefault("domains.latitude.min", d.Domains.Latitude.Min)
	v.SetDefault("domains.latitude.max", d.Domains.Latitude.Max)
	v.SetDefault("domains.longitude.min", d.Domains.Longitude.Min)
	v.SetDefault("domains.longitude.max", d.Domains.Longitude.Max)
	v.SetDefault("domains.language", d.Domains.Language)
	v.SetDefault("domains.user_agent", d.Domains.UserAgent)
	setRange(v, "domains.device_type", d.Domains.DeviceType)
	setRange(v, "domains.category_count", d.Domains.CategoryCount)
	setRange(v, "domains.category_id", d.Domains.CategoryID)
	setRange(v, "domains.pos_x", d.Domains.PosX)
	setRange(v, "domains.pos_y", d.Domains.PosY)
}

func setRange(v *viper.Viper, key string, r Range) {
	v.SetDefault(key+".min", r.Min)
	v.SetDefault(key+".max", r.Max)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Table == "" {
		return errors.New("output.table is required")
	}
	if c.Output.Rows <= 0 {
		return fmt.Errorf("output.rows must be positive, got %d", c.Output.Rows)
	}
	if c.Window.Days <= 0 || c.Window.Days > MaxWindowDays {
		return fmt.Errorf("window.days must be in [1, %d], got %d", MaxWindowDays, c.Window.Days)
	}
	if c.Window.BackStepDays < 0 || c.Window.BackStepDays > MaxWindowDays {
		return fmt.Errorf("window.back_step_days must be in [0, %d], got %d", MaxWindowDays, c.Window.BackStepDays)
	}
	if c.Window.LookbackDays < 0 {
		return fmt.Errorf("window.lookback_days must not be negative, got %d", c.Window.LookbackDays)
	}
	if c.Window.Start != "" {
		if _, err := parseStart(c.Window.Start); err != nil {
			return fmt.Errorf("window.start: %w", err)
		}
	}
	return c.Domains.Validate()
}

// Validate checks every domain for inverted ranges and empty choice lists
func (d *DomainsConfig) Validate() error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"delay", d.Delay},
		{"duration", d.Duration},
		{"status", d.Status},
		{"external_id", d.ExternalID},
		{"reference_id", d.ReferenceID},
		{"network", d.Network},
		{"domain", d.Domain},
		{"ad_width", d.AdWidth},
		{"ad_height", d.AdHeight},
		{"url_suffix", d.URLSuffix},
		{"pricing_model", d.PricingModel},
		{"price", d.Price},
		{"token_suffix", d.TokenSuffix},
		{"device_type", d.DeviceType},
		{"category_count", d.CategoryCount},
		{"category_id", d.CategoryID},
		{"pos_x", d.PosX},
		{"pos_y", d.PosY},
	}
	for _, nr := range ranges {
		if nr.r.Min > nr.r.Max {
			return fmt.Errorf("domains.%s: min %d is greater than max %d", nr.name, nr.r.Min, nr.r.Max)
		}
	}

	if d.CategoryCount.Min < 1 {
		return fmt.Errorf("domains.category_count: min must be at least 1, got %d", d.CategoryCount.Min)
	}
	if d.PriceScale <= 0 {
		return fmt.Errorf("domains.price_scale must be positive, got %d", d.PriceScale)
	}
	for _, p := range []int{d.Price.Min, d.Price.Max} {
		if p != 0 && (int64(p) > math.MaxInt64/d.PriceScale || int64(p) < math.MinInt64/d.PriceScale) {
			return fmt.Errorf("domains.price: %d * price_scale %d overflows int64", p, d.PriceScale)
		}
	}
	if d.Latitude.Min > d.Latitude.Max || d.Latitude.Min < -90 || d.Latitude.Max > 90 {
		return fmt.Errorf("domains.latitude must lie within [-90, 90] with min <= max")
	}
	if d.Longitude.Min > d.Longitude.Max || d.Longitude.Min < -180 || d.Longitude.Max > 180 {
		return fmt.Errorf("domains.longitude must lie within [-180, 180] with min <= max")
	}

	switch {
	case len(d.EventTypes) == 0:
		return errors.New("domains.event_types must not be empty")
	case len(d.AuctionTypes) == 0:
		return errors.New("domains.auction_types must not be empty")
	case len(d.PlatformTypes) == 0:
		return errors.New("domains.platform_types must not be empty")
	case len(d.Countries) == 0:
		return errors.New("domains.countries must not be empty")
	}

	for _, s := range append(append([]string{}, d.EventTypes...), d.Countries...) {
		if strings.ContainsRune(s, '\'') {
			return fmt.Errorf("domains: value %q must not contain a single quote", s)
		}
	}
	if strings.ContainsRune(d.Language, '\'') || strings.ContainsRune(d.UserAgent, '\'') {
		return errors.New("domains: language and user_agent must not contain a single quote")
	}

	return nil
}

// WindowStart resolves the calendar start of the window relative to now.
func (c *Config) WindowStart(now time.Time) (time.Time, error) {
	if c.Window.Start == "" {
		return now.AddDate(0, 0, -c.Window.LookbackDays), nil
	}
	return parseStart(c.Window.Start)
}

func parseStart(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start %q (use 2006-01-02 or RFC3339)", s)
	}
	return t, nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// DefaultPath returns ~/.statsgen/statsgen.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, userDir, configName+".yaml"), nil
}

// Save writes the configuration to path as YAML, creating parent directories.
// An empty path means ~/.statsgen/statsgen.yaml.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
