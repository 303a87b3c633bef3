// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	APIs      APIsConfig      `mapstructure:"apis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	PlanStore PlanStoreConfig `mapstructure:"plan_store"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// APIsConfig holds settings for the external generation services.
type APIsConfig struct {
	TextGen  TextGenConfig  `mapstructure:"textgen"`
	ImageGen ImageGenConfig `mapstructure:"imagegen"`
}

type TextGenConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
}

type ImageGenConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Size    string `mapstructure:"size"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// RateLimitConfig holds the per-client request window for the HTTP surface
// and the minimum interval between outbound text-generation calls.
type RateLimitConfig struct {
	RequestsPerWindow int `mapstructure:"requests_per_window"`
	WindowMinutes     int `mapstructure:"window_minutes"`
	MinIntervalMillis int `mapstructure:"min_interval_millis"`
}

// CacheConfig holds the response cache freshness window.
type CacheConfig struct {
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

// PlanStoreConfig holds the tiered most-recent-plan store thresholds.
// One consistent set of ceilings, chosen once.
type PlanStoreConfig struct {
	PrimaryCeilingBytes   int `mapstructure:"primary_ceiling_bytes"`
	SecondaryCeilingBytes int `mapstructure:"secondary_ceiling_bytes"`
	SecondaryTTLHours     int `mapstructure:"secondary_ttl_hours"`
}

// FallbackConfig holds knobs for the deterministic plan synthesizer.
type FallbackConfig struct {
	ExercisesPerBodyPart int `mapstructure:"exercises_per_body_part"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
