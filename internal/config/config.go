// Package config provides configuration management for the OddsEdge engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Quality   QualityConfig   `mapstructure:"quality" validate:"required"`
	Ratings   RatingsConfig   `mapstructure:"ratings" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// EngineConfig tunes the decision engine thresholds
type EngineConfig struct {
	DevigMethod          string  `mapstructure:"devig_method" validate:"required,devigmethod"`
	MinEV                float64 `mapstructure:"min_ev" validate:"gte=0,lte=1"`
	MinEdge              float64 `mapstructure:"min_edge" validate:"gte=0,lte=1"`
	MinModelProbability  float64 `mapstructure:"min_model_probability" validate:"gte=0,lte=1"`
	ErrorReportThreshold float64 `mapstructure:"error_report_threshold" validate:"gte=0,lte=1"`
	StatsWindowGames     int     `mapstructure:"stats_window_games" validate:"required,gt=0"`
}

// QualityConfig tunes the pick quality filter
type QualityConfig struct {
	MinBookmakers int     `mapstructure:"min_bookmakers" validate:"required,gt=0"`
	MinScore      float64 `mapstructure:"min_score" validate:"required,gte=0,lte=1"`
	VolumeFloor   int     `mapstructure:"volume_floor" validate:"required,gt=0"`
}

// RatingsConfig represents the external player-ratings API configuration.
// An empty base URL disables the ratings client; the remaining fields are
// only validated when one is set.
type RatingsConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey          string `mapstructure:"api_key"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"required_with=BaseURL,omitempty,gt=0"`
	RetryAttempts   int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSec  int    `mapstructure:"requests_per_sec" validate:"required_with=BaseURL,omitempty,gt=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required_with=BaseURL,omitempty,gt=0"`
}

// SchedulerConfig represents evaluation tick scheduling
type SchedulerConfig struct {
	EvaluationSpec   string `mapstructure:"evaluation_spec" validate:"required"`
	StatsRefreshSpec string `mapstructure:"stats_refresh_spec" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SecretsConfig points at the optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Timeout returns the ratings client timeout as a duration
func (r *RatingsConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// CacheTTL returns the ratings cache TTL as a duration
func (r *RatingsConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLSeconds) * time.Second
}
