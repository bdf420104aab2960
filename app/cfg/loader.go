package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for mutating endpoints (optional)"`

	// Upstream sources
	ChannelsDir  string `long:"channels-dir" env:"CHANNELS_DIR" default:"./channels" description:"Directory containing channel configuration files"`
	FeedURL      string `long:"feed-url" env:"FEED_URL" description:"Upstream aggregated feed endpoint; when empty, channels are collected directly"`
	IncidentsURL string `long:"incidents-url" env:"INCIDENTS_URL" default:"https://status.cloud.google.com/incidents.json" description:"Upstream incidents endpoint"`

	// Generative search service
	GeminiAPIKey string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Generative search API key; end-of-support synthesis is disabled when empty"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.0-flash" description:"Generative model identifier"`

	// Storage
	DBPath string `long:"db-path" env:"DB_PATH" default:"./cloudpulse.db" description:"Path to the sqlite snapshot database"`

	// Cache and scheduler tuning
	CacheFreshness    int `long:"cache-freshness" env:"CACHE_FRESHNESS" default:"300" description:"Cache freshness window in seconds"`
	CacheRetention    int `long:"cache-retention" env:"CACHE_RETENTION" default:"600" description:"Stale cache retention in seconds"`
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for refresh tasks"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Cloud Pulse/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		ChannelsDir:       raw.ChannelsDir,
		FeedURL:           raw.FeedURL,
		IncidentsURL:      raw.IncidentsURL,
		GeminiAPIKey:      raw.GeminiAPIKey,
		GeminiModel:       raw.GeminiModel,
		DBPath:            raw.DBPath,
		CacheFreshness:    raw.CacheFreshness,
		CacheRetention:    raw.CacheRetention,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
