package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAssetOrigin is only honoured in development, where a local CMS is
// expected to run on its default port.
const DefaultAssetOrigin = "http://localhost:1337"

type Config struct {
	// Server
	Port        string
	Environment string

	// Logging
	LogLevel  string
	LogFormat string

	// CMS
	CMSAPIURL      string
	CMSAPIToken    string
	CMSAssetOrigin string
	CMSTimeout     time.Duration

	// Content
	BlogPageSize           int
	DegradeOnGlobalFailure bool
	ContactPath            string
	CookieConsentPath      string

	// Cache
	EnableCache       bool
	RedisURL          string
	RevalidateSeconds int

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int

	// CORS
	CORSOrigins []string

	// Features
	EnableMetrics bool

	// Site Meta
	SiteName        string
	SiteDescription string
	StaticDir       string
}

var defaults = map[string]interface{}{
	"port":                      "8080",
	"environment":               "development",
	"log_level":                 "info",
	"log_format":                "text",
	"cms_api_url":               "http://localhost:1337/api",
	"cms_api_token":             "",
	"cms_asset_origin":          "",
	"cms_timeout":               "10s",
	"blog_page_size":            9,
	"degrade_on_global_failure": false,
	"contact_path":              "/contact-submissions",
	"cookie_consent_path":       "/cookie-consents",
	"enable_cache":              false,
	"redis_url":                 "localhost:6379",
	"revalidate_seconds":        60,
	"rate_limit_requests":       20,
	"rate_limit_window":         60,
	"cors_origins":              "http://localhost:3000,http://localhost:8080",
	"enable_metrics":            true,
	"site_name":                 "Beam Wallet",
	"site_description":          "Beam Wallet unites digital payments, consumer experience and retail marketing with a 360° solution.",
	"static_dir":                "./static",
}

// New builds a configuration from defaults and environment variables.
func New() *Config {
	cfg, _ := Load("")
	return cfg
}

// Load reads defaults, an optional config file and the environment. Environment
// variables always win over file values. A .env file in the working directory
// seeds the environment without overriding variables that are already set.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var loadErr error
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			loadErr = fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	c := &Config{
		Port:        v.GetString("port"),
		Environment: strings.ToLower(strings.TrimSpace(v.GetString("environment"))),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),

		CMSAPIURL:      strings.TrimRight(strings.TrimSpace(v.GetString("cms_api_url")), "/"),
		CMSAPIToken:    strings.TrimSpace(v.GetString("cms_api_token")),
		CMSAssetOrigin: strings.TrimRight(strings.TrimSpace(v.GetString("cms_asset_origin")), "/"),
		CMSTimeout:     v.GetDuration("cms_timeout"),

		BlogPageSize:           v.GetInt("blog_page_size"),
		DegradeOnGlobalFailure: v.GetBool("degrade_on_global_failure"),
		ContactPath:            v.GetString("contact_path"),
		CookieConsentPath:      v.GetString("cookie_consent_path"),

		EnableCache:       v.GetBool("enable_cache"),
		RedisURL:          v.GetString("redis_url"),
		RevalidateSeconds: v.GetInt("revalidate_seconds"),

		RateLimitRequests: v.GetInt("rate_limit_requests"),
		RateLimitWindow:   v.GetInt("rate_limit_window"),

		CORSOrigins: splitList(v.GetString("cors_origins")),

		EnableMetrics: v.GetBool("enable_metrics"),

		SiteName:        v.GetString("site_name"),
		SiteDescription: v.GetString("site_description"),
		StaticDir:       v.GetString("static_dir"),
	}

	return c, loadErr
}

// Validate reports configuration that would silently misbehave at runtime.
func (c *Config) Validate() error {
	var errs []error

	if c.CMSAPIURL == "" {
		errs = append(errs, errors.New("CMS_API_URL is required"))
	} else if u, err := url.Parse(c.CMSAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("CMS_API_URL %q is not an absolute URL", c.CMSAPIURL))
	}

	if c.CMSAssetOrigin == "" && !c.IsDevelopment() {
		errs = append(errs, fmt.Errorf("CMS_ASSET_ORIGIN must be set in the %s environment", c.Environment))
	}

	if c.BlogPageSize <= 0 {
		errs = append(errs, fmt.Errorf("BLOG_PAGE_SIZE must be positive, got %d", c.BlogPageSize))
	}

	return errors.Join(errs...)
}

// AssetOrigin returns the origin used for relative media URLs, applying the
// development fallback.
func (c *Config) AssetOrigin() string {
	if c.CMSAssetOrigin != "" {
		return c.CMSAssetOrigin
	}
	if c.IsDevelopment() {
		return DefaultAssetOrigin
	}
	return ""
}

func (c *Config) Revalidate() time.Duration {
	if c.RevalidateSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RevalidateSeconds) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
