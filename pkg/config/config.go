package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// CurrenciesFile is the currency configuration; when the file is
	// missing, the registry bootstraps the two default currencies.
	CurrenciesFile string

	// TopRefreshInterval is the leaderboard rebuild period.
	TopRefreshInterval time.Duration

	// SaveDebounceInterval is the window within which repeated mutations of
	// one account collapse into a single persistence write.
	SaveDebounceInterval time.Duration

	// RateLimit is the API rate limit in ulule/limiter period notation,
	// e.g. "100-M" for 100 requests per minute.
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("CURRENCIES_FILE", "currencies.yaml")
	viper.SetDefault("TOP_REFRESH_INTERVAL", "60s")
	viper.SetDefault("SAVE_DEBOUNCE_INTERVAL", "5s")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
		// Consider returning an error depending on requirements
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.CurrenciesFile = viper.GetString("CURRENCIES_FILE")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	topRefreshStr := viper.GetString("TOP_REFRESH_INTERVAL")
	topRefresh, err := time.ParseDuration(topRefreshStr)
	if err != nil || topRefresh <= 0 {
		topRefresh = time.Minute
		if topRefreshStr != "" {
			log.Printf("Warning: Invalid value for TOP_REFRESH_INTERVAL ('%s'). Defaulting to %s.\n", topRefreshStr, topRefresh)
		}
	}
	cfg.TopRefreshInterval = topRefresh

	saveDebounceStr := viper.GetString("SAVE_DEBOUNCE_INTERVAL")
	saveDebounce, err := time.ParseDuration(saveDebounceStr)
	if err != nil || saveDebounce <= 0 {
		saveDebounce = 5 * time.Second
		if saveDebounceStr != "" {
			log.Printf("Warning: Invalid value for SAVE_DEBOUNCE_INTERVAL ('%s'). Defaulting to %s.\n", saveDebounceStr, saveDebounce)
		}
	}
	cfg.SaveDebounceInterval = saveDebounce

	return cfg, nil
}
