// Package config loads application configuration and wires the global
// logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Crime     CrimeConfig     `yaml:"crime" mapstructure:"crime"`
	Currency  CurrencyConfig  `yaml:"currency" mapstructure:"currency"`
	Weather   WeatherConfig   `yaml:"weather" mapstructure:"weather"`
	Routes    RoutesConfig    `yaml:"routes" mapstructure:"routes"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds the Maps platform credentials and endpoints.
type GoogleConfig struct {
	APIKey         string `yaml:"api_key" mapstructure:"api_key"`
	PlacesBaseURL  string `yaml:"places_base_url" mapstructure:"places_base_url"`
	GeocodeBaseURL string `yaml:"geocode_base_url" mapstructure:"geocode_base_url"`
}

// AnthropicConfig holds the generative-text settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	System    string `yaml:"system" mapstructure:"system"`
	Apology   string `yaml:"apology" mapstructure:"apology"`
}

// SearchConfig configures the place search pipeline.
type SearchConfig struct {
	CenterLat    float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLng    float64 `yaml:"center_lng" mapstructure:"center_lng"`
	RadiusMeters int     `yaml:"radius_meters" mapstructure:"radius_meters"`
	MinRating    float64 `yaml:"min_rating" mapstructure:"min_rating"`
	Verbose      bool    `yaml:"verbose" mapstructure:"verbose"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// CrimeConfig configures the crime aggregation pipeline.
type CrimeConfig struct {
	File      string `yaml:"file" mapstructure:"file"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
	Encoding  string `yaml:"encoding" mapstructure:"encoding"`
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`
	SkipRows  int    `yaml:"skip_rows" mapstructure:"skip_rows"`
}

// CurrencyConfig configures the exchange-rate widget.
type CurrencyConfig struct {
	BaseURL  string  `yaml:"base_url" mapstructure:"base_url"`
	Base     string  `yaml:"base" mapstructure:"base"`
	Target   string  `yaml:"target" mapstructure:"target"`
	Fallback float64 `yaml:"fallback" mapstructure:"fallback"`
}

// WeatherConfig configures the temperature widget.
type WeatherConfig struct {
	BaseURL  string  `yaml:"base_url" mapstructure:"base_url"`
	Fallback float64 `yaml:"fallback" mapstructure:"fallback"`
}

// RoutesConfig configures the static itinerary source.
type RoutesConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// StoreConfig configures the review-board backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BERLIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults: Berlin city center, 3 km search radius.
	v.SetDefault("search.center_lat", 52.5200)
	v.SetDefault("search.center_lng", 13.4050)
	v.SetDefault("search.radius_meters", 3000)
	v.SetDefault("search.min_rating", 0.0)
	v.SetDefault("search.verbose", true)
	v.SetDefault("search.timeout_secs", 10)
	v.SetDefault("crime.file", "data/berlin_crime.csv")
	v.SetDefault("crime.delimiter", ",")
	v.SetDefault("currency.base", "EUR")
	v.SetDefault("currency.target", "KRW")
	v.SetDefault("currency.fallback", 1450.0)
	v.SetDefault("weather.fallback", 15.0)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.system", "You are a concise, friendly Berlin travel guide.")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "berlin.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
