package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/resale/backend/internal/domain"
	"github.com/resale/backend/internal/infrastructure/logger"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Ebay      EbayConfig      `mapstructure:"ebay"`
	Amazon    AmazonConfig    `mapstructure:"amazon"`
	Walmart   WalmartConfig   `mapstructure:"walmart"`
	Sears     SearsConfig     `mapstructure:"sears"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// EbayConfig holds eBay developer credentials and endpoints
type EbayConfig struct {
	AppID       string `mapstructure:"app_id"`
	CertID      string `mapstructure:"cert_id"`
	StoreName   string `mapstructure:"store_name"`
	SiteID      string `mapstructure:"site_id"`
	FindingURL  string `mapstructure:"finding_url"`
	ShoppingURL string `mapstructure:"shopping_url"`
	TokenURL    string `mapstructure:"token_url"`
}

// AmazonConfig holds Product Advertising API credentials
type AmazonConfig struct {
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	AssociateTag string `mapstructure:"associate_tag"`
	Endpoint     string `mapstructure:"endpoint"`
}

// WalmartConfig holds Walmart API configuration
type WalmartConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// SearsConfig holds Sears storefront configuration
type SearsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
}

// RateLimitConfig holds per-vendor request budgets, in requests per hour
type RateLimitConfig struct {
	Ebay    int `mapstructure:"ebay"`
	Amazon  int `mapstructure:"amazon"`
	Walmart int `mapstructure:"walmart"`
	Sears   int `mapstructure:"sears"`
}

// Enabled reports whether eBay credentials are present
func (c EbayConfig) Enabled() bool { return c.AppID != "" }

// Enabled reports whether Amazon credentials are present
func (c AmazonConfig) Enabled() bool { return c.AccessKey != "" }

// Enabled reports whether a Walmart API key is present
func (c WalmartConfig) Enabled() bool { return c.APIKey != "" }

// EnabledMerchants lists the URL-dispatchable merchants that are configured
func (c *Config) EnabledMerchants() []domain.Merchant {
	var merchants []domain.Merchant
	if c.Amazon.Enabled() {
		merchants = append(merchants, domain.MerchantAmazon)
	}
	if c.Walmart.Enabled() {
		merchants = append(merchants, domain.MerchantWalmart)
	}
	if c.Sears.Enabled {
		merchants = append(merchants, domain.MerchantSears)
	}
	return merchants
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./private")
	v.AddConfigPath("/etc/resale/")

	// RESALE_EBAY_APP_ID -> ebay.app_id
	v.SetEnvPrefix("RESALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	logCfg := logger.Config{
		Level:  config.Log.Level,
		Format: config.Log.Format,
		Output: config.Log.Output,
	}.WithDefaults(config.Server.Environment)
	config.Log = LogConfig{Level: logCfg.Level, Format: logCfg.Format, Output: logCfg.Output}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// empty log settings fall back to the server environment's preset
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "")
	v.SetDefault("log.output", "")

	v.SetDefault("ebay.app_id", "")
	v.SetDefault("ebay.cert_id", "")
	v.SetDefault("ebay.store_name", "")
	v.SetDefault("ebay.site_id", "0")
	v.SetDefault("ebay.finding_url", "https://svcs.ebay.com/services/search/FindingService/v1")
	v.SetDefault("ebay.shopping_url", "https://open.api.ebay.com/shopping")
	v.SetDefault("ebay.token_url", "https://api.ebay.com/identity/v1/oauth2/token")

	v.SetDefault("amazon.access_key", "")
	v.SetDefault("amazon.secret_key", "")
	v.SetDefault("amazon.associate_tag", "")
	v.SetDefault("amazon.endpoint", "https://webservices.amazon.com")

	v.SetDefault("walmart.api_key", "")
	v.SetDefault("walmart.base_url", "https://www.walmart.com")

	v.SetDefault("sears.enabled", false)
	v.SetDefault("sears.base_url", "https://www.sears.com")

	v.SetDefault("ratelimit.ebay", 5000)
	v.SetDefault("ratelimit.amazon", 3600)
	v.SetDefault("ratelimit.walmart", 5000)
	v.SetDefault("ratelimit.sears", 1000)
}

// validate validates the configuration
func validate(config *Config) error {
	if _, err := logger.ParseLevel(config.Log.Level); err != nil {
		return err
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	if config.Ebay.CertID != "" && config.Ebay.AppID == "" {
		return fmt.Errorf("eBay app id is required when a cert id is set (set RESALE_EBAY_APP_ID)")
	}

	if config.Amazon.AccessKey != "" {
		if config.Amazon.SecretKey == "" {
			return fmt.Errorf("Amazon secret key is required (set RESALE_AMAZON_SECRET_KEY)")
		}
		if config.Amazon.AssociateTag == "" {
			return fmt.Errorf("Amazon associate tag is required (set RESALE_AMAZON_ASSOCIATE_TAG)")
		}
	}

	limits := map[string]int{
		"ebay":    config.RateLimit.Ebay,
		"amazon":  config.RateLimit.Amazon,
		"walmart": config.RateLimit.Walmart,
		"sears":   config.RateLimit.Sears,
	}
	for vendor, perHour := range limits {
		if perHour <= 0 {
			return fmt.Errorf("rate limit for %s must be positive, got: %d", vendor, perHour)
		}
	}

	return nil
}
