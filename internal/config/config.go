package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	GreyNoise GreyNoiseConfig
	OTX       OTXConfig
	Shodan    ShodanConfig
	Censys    CensysConfig
	Search    SearchConfig
	Feeds     FeedsConfig
}

type AppConfig struct {
	Env  string
	Port int
	Host string
}

type GreyNoiseConfig struct {
	APIKey  string
	Timeout time.Duration
}

type OTXConfig struct {
	APIKey  string
	Timeout time.Duration
}

type ShodanConfig struct {
	APIKey  string
	Timeout time.Duration
}

type CensysConfig struct {
	APIID     string
	APISecret string
	Timeout   time.Duration
}

// SearchConfig configures the Google Custom Search provider.
// Both Key and EngineID are required for the search endpoints;
// unlike the threat intel providers, search fails closed without them.
type SearchConfig struct {
	Key      string
	EngineID string
	Timeout  time.Duration
}

type FeedsConfig struct {
	CacheTTL        time.Duration
	RefreshInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/etc/isolationbox")

	viper.AutomaticEnv()

	bindEnvVars()
	setDefaults()

	// Config file is optional; env vars alone are enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("Error reading config file", "error", err)
		}
	}

	config := &Config{
		App: AppConfig{
			Env:  viper.GetString("APP_ENV"),
			Port: viper.GetInt("APP_PORT"),
			Host: viper.GetString("APP_HOST"),
		},
		GreyNoise: GreyNoiseConfig{
			APIKey:  viper.GetString("GREYNOISE_API_KEY"),
			Timeout: viper.GetDuration("PROVIDER_TIMEOUT"),
		},
		OTX: OTXConfig{
			APIKey:  viper.GetString("OTX_API_KEY"),
			Timeout: viper.GetDuration("PROVIDER_TIMEOUT"),
		},
		Shodan: ShodanConfig{
			APIKey:  viper.GetString("SHODAN_API_KEY"),
			Timeout: viper.GetDuration("SEARCH_TIMEOUT"),
		},
		Censys: CensysConfig{
			APIID:     viper.GetString("CENSYS_API_ID"),
			APISecret: viper.GetString("CENSYS_API_SECRET"),
			Timeout:   viper.GetDuration("SEARCH_TIMEOUT"),
		},
		Search: SearchConfig{
			Key:      viper.GetString("GOOGLE_CSE_KEY"),
			EngineID: viper.GetString("GOOGLE_CSE_ID"),
			Timeout:  viper.GetDuration("SEARCH_TIMEOUT"),
		},
		Feeds: FeedsConfig{
			CacheTTL:        viper.GetDuration("FEED_CACHE_TTL"),
			RefreshInterval: viper.GetDuration("FEED_REFRESH_INTERVAL"),
		},
	}

	return config, nil
}

func bindEnvVars() {
	// App
	viper.BindEnv("APP_ENV")
	viper.BindEnv("APP_PORT")
	viper.BindEnv("APP_HOST")

	// Provider credentials (all optional except search)
	viper.BindEnv("GREYNOISE_API_KEY")
	viper.BindEnv("OTX_API_KEY")
	viper.BindEnv("SHODAN_API_KEY")
	viper.BindEnv("CENSYS_API_ID")
	viper.BindEnv("CENSYS_API_SECRET")
	viper.BindEnv("GOOGLE_CSE_KEY")
	viper.BindEnv("GOOGLE_CSE_ID")

	// Timeouts and feed behavior
	viper.BindEnv("PROVIDER_TIMEOUT")
	viper.BindEnv("SEARCH_TIMEOUT")
	viper.BindEnv("FEED_CACHE_TTL")
	viper.BindEnv("FEED_REFRESH_INTERVAL")
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_HOST", "0.0.0.0")

	viper.SetDefault("PROVIDER_TIMEOUT", 10*time.Second)
	viper.SetDefault("SEARCH_TIMEOUT", 10*time.Second)
	viper.SetDefault("FEED_CACHE_TTL", 15*time.Minute)
	viper.SetDefault("FEED_REFRESH_INTERVAL", 5*time.Minute)
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func SetupLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
