package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the ask service
type Config struct {
	General      GeneralConfig      `mapstructure:"general"`
	Server       ServerConfig       `mapstructure:"server"`
	Backend      BackendConfig      `mapstructure:"backend"`
	Entitlements EntitlementsConfig `mapstructure:"entitlements"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Plans        PlansConfig        `mapstructure:"plans"`
	Tools        ToolsConfig        `mapstructure:"tools"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
	Storage      StorageConfig      `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// BackendConfig contains answer-backend provider settings
type BackendConfig struct {
	Type        string        `mapstructure:"type"` // openai
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (b BackendConfig) Validate() error {
	if strings.TrimSpace(b.Type) == "" {
		return fmt.Errorf("backend.type is required")
	}
	if strings.TrimSpace(b.Model) == "" {
		return fmt.Errorf("backend.model is required")
	}
	return nil
}

// EntitlementsConfig contains entitlement provider settings.
// A provider with an empty API key is skipped during resolution.
type EntitlementsConfig struct {
	CacheTTL  time.Duration    `mapstructure:"cache_ttl"`
	Memberful MemberfulConfig  `mapstructure:"memberful"`
	Stripe    StripeAPIKeyOnly `mapstructure:"stripe"`
}

// MemberfulConfig contains Memberful membership API settings
type MemberfulConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// StripeAPIKeyOnly contains Stripe subscription lookup settings
type StripeAPIKeyOnly struct {
	APIKey   string        `mapstructure:"api_key"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig caps request throughput per user per fixed window
type RateLimitConfig struct {
	MaxPerWindow int           `mapstructure:"max_per_window"`
	Window       time.Duration `mapstructure:"window"`
}

func (r RateLimitConfig) Validate() error {
	if r.MaxPerWindow <= 0 {
		return fmt.Errorf("rate_limit.max_per_window must be > 0")
	}
	if r.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be > 0")
	}
	return nil
}

// PlansConfig defines the three policy tiers
type PlansConfig struct {
	Free       TierConfig `mapstructure:"free"`
	Pro        TierConfig `mapstructure:"pro"`
	Enterprise TierConfig `mapstructure:"enterprise"`
}

// TierConfig is one plan tier's quota bundle
type TierConfig struct {
	TokenBudget  int      `mapstructure:"token_budget"`
	HistoryLimit int      `mapstructure:"history_limit"`
	CharLimit    int      `mapstructure:"char_limit"`
	EnabledTools []string `mapstructure:"enabled_tools"`
}

func (t TierConfig) Validate(name string) error {
	if t.TokenBudget <= 0 {
		return fmt.Errorf("plans.%s.token_budget must be > 0", name)
	}
	if t.HistoryLimit < 0 {
		return fmt.Errorf("plans.%s.history_limit cannot be negative", name)
	}
	return nil
}

// ToolsConfig contains tool registry settings
type ToolsConfig struct {
	DefaultTimeout time.Duration   `mapstructure:"default_timeout"`
	WebSearch      WebSearchConfig `mapstructure:"web_search"`
	Calc           CalcConfig      `mapstructure:"calc"`
	Knowledge      KnowledgeConfig `mapstructure:"knowledge"`
}

// WebSearchConfig contains web search tool settings
type WebSearchConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Provider     string        `mapstructure:"provider"` // brave or serper
	BraveAPIKey  string        `mapstructure:"brave_api_key"`
	SerperAPIKey string        `mapstructure:"serper_api_key"`
	MaxResults   int           `mapstructure:"max_results"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CalcConfig contains arithmetic tool settings
type CalcConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// KnowledgeConfig contains the local knowledge index settings
type KnowledgeConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DocsDir    string        `mapstructure:"docs_dir"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig contains telemetry and alerting settings
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	AnalyticsURL string `mapstructure:"analytics_url"`
	AlertsURL    string `mapstructure:"alerts_url"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
	PeriodicLogs bool   `mapstructure:"periodic_logs"`
}

// StorageConfig contains shared-store settings. Redis is optional; when the
// host is empty the in-process stores are used instead.
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Configured() bool {
	return strings.TrimSpace(r.Host) != ""
}

func (r RedisConfig) Validate() error {
	if !r.Configured() {
		return nil
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required when host is set")
	}
	return nil
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("server.address", ":10020")
	viper.SetDefault("backend.type", "openai")
	viper.SetDefault("backend.model", "gpt-4o-mini")
	viper.SetDefault("backend.temperature", 0.2)
	viper.SetDefault("backend.timeout", 30*time.Second)
	viper.SetDefault("entitlements.cache_ttl", 5*time.Minute)
	viper.SetDefault("entitlements.memberful.timeout", 5*time.Second)
	viper.SetDefault("entitlements.stripe.timeout", 5*time.Second)
	viper.SetDefault("rate_limit.max_per_window", 30)
	viper.SetDefault("rate_limit.window", time.Minute)
	viper.SetDefault("plans.free.token_budget", 512)
	viper.SetDefault("plans.free.history_limit", 4)
	viper.SetDefault("plans.free.char_limit", 400)
	viper.SetDefault("plans.free.enabled_tools", []string{"math"})
	viper.SetDefault("plans.pro.token_budget", 2048)
	viper.SetDefault("plans.pro.history_limit", 12)
	viper.SetDefault("plans.pro.char_limit", 1200)
	viper.SetDefault("plans.pro.enabled_tools", []string{"web", "math"})
	viper.SetDefault("plans.enterprise.token_budget", 8192)
	viper.SetDefault("plans.enterprise.history_limit", 24)
	viper.SetDefault("plans.enterprise.char_limit", 2400)
	viper.SetDefault("plans.enterprise.enabled_tools", []string{"web", "math", "kb"})
	viper.SetDefault("tools.default_timeout", 5*time.Second)
	viper.SetDefault("tools.web_search.enabled", true)
	viper.SetDefault("tools.web_search.provider", "serper")
	viper.SetDefault("tools.web_search.max_results", 5)
	viper.SetDefault("tools.web_search.timeout", 4*time.Second)
	viper.SetDefault("tools.calc.enabled", true)
	viper.SetDefault("tools.calc.timeout", time.Second)
	viper.SetDefault("tools.knowledge.enabled", false)
	viper.SetDefault("tools.knowledge.max_results", 3)
	viper.SetDefault("tools.knowledge.timeout", 3*time.Second)
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.service_name", "askgate")

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("ASKGATE")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv() // read in environment variables that match (ASKGATE_*)

	if err := viper.ReadInConfig(); err != nil {
		// defaults plus env are a workable configuration on their own
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Backend.Validate(); err != nil {
		panic(err)
	}
	if err := config.RateLimit.Validate(); err != nil {
		panic(err)
	}
	if err := config.Plans.Free.Validate("free"); err != nil {
		panic(err)
	}
	if err := config.Plans.Pro.Validate("pro"); err != nil {
		panic(err)
	}
	if err := config.Plans.Enterprise.Validate("enterprise"); err != nil {
		panic(err)
	}
	if err := config.Storage.Redis.Validate(); err != nil {
		panic(err)
	}
	return &config
}
