package cfg

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/opengovern/adsbridge"
)

type Config struct {
	AppEnv string

	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string

	APIHost    string
	APIVersion string

	MaxRetries  int
	BaseBackoff time.Duration
}

// Load reads .env (if present) and the environment. All problems are
// reported together.
func Load() (*Config, error) {
	var errs []error

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}

	c := &Config{
		AppEnv:            getEnvOrDefault("APP_ENV", "development"),
		ConsumerKey:       mustEnv("ADS_CONSUMER_KEY", &errs),
		ConsumerSecret:    mustEnv("ADS_CONSUMER_SECRET", &errs),
		AccessToken:       os.Getenv("ADS_ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv("ADS_ACCESS_TOKEN_SECRET"),
		APIHost:           getEnvOrDefault("ADS_API_HOST", "https://ads-api.twitter.com"),
		APIVersion:        getEnvOrDefault("ADS_API_VERSION", adsbridge.APIVersion),
		MaxRetries:        getEnvIntOrDefault("ADS_MAX_RETRIES", 3, &errs),
		BaseBackoff:       getEnvDurationOrDefault("ADS_BASE_BACKOFF", time.Second, &errs),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// BridgeConfig maps the retry settings onto an adsbridge.BridgeConfig.
func (c *Config) BridgeConfig() *adsbridge.BridgeConfig {
	bc := adsbridge.DefaultBridgeConfig()
	bc.MaxRetries = c.MaxRetries
	bc.BaseBackoff = c.BaseBackoff
	return bc
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int, errs *[]error) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil || intValue < 0 {
		*errs = append(*errs, errors.New("invalid int for "+key+": "+value))
		return defaultValue
	}
	return intValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, errors.New("invalid duration for "+key+": "+value))
		return defaultValue
	}
	return duration
}
