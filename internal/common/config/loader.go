// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like TEXTGEN_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or any parent that
// holds go.mod, so the binary and the tests see the same environment.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills credential fields straight from the environment
// when YAML expansion left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.APIs.TextGen.APIKey == "" {
		if val := os.Getenv("TEXTGEN_API_KEY"); val != "" {
			cfg.APIs.TextGen.APIKey = val
		}
	}
	if cfg.APIs.ImageGen.APIKey == "" {
		if val := os.Getenv("IMAGEGEN_API_KEY"); val != "" {
			cfg.APIs.ImageGen.APIKey = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/workouts.db"
	}

	if cfg.APIs.TextGen.Model == "" {
		cfg.APIs.TextGen.Model = "gpt-4"
	}
	if cfg.APIs.TextGen.MaxTokens == 0 {
		cfg.APIs.TextGen.MaxTokens = 2000
	}
	if cfg.APIs.TextGen.Temperature == 0 {
		cfg.APIs.TextGen.Temperature = 0.7
	}
	if cfg.APIs.TextGen.Timeout == 0 {
		cfg.APIs.TextGen.Timeout = 60000
	}
	if cfg.APIs.TextGen.MaxRetries == 0 {
		cfg.APIs.TextGen.MaxRetries = 2
	}

	if cfg.APIs.ImageGen.Size == "" {
		cfg.APIs.ImageGen.Size = "512x512"
	}
	if cfg.APIs.ImageGen.Timeout == 0 {
		cfg.APIs.ImageGen.Timeout = 30000
	}

	if cfg.RateLimit.RequestsPerWindow == 0 {
		cfg.RateLimit.RequestsPerWindow = 10
	}
	if cfg.RateLimit.WindowMinutes == 0 {
		cfg.RateLimit.WindowMinutes = 60
	}
	if cfg.RateLimit.MinIntervalMillis == 0 {
		cfg.RateLimit.MinIntervalMillis = 1000
	}

	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 5
	}

	if cfg.PlanStore.PrimaryCeilingBytes == 0 {
		cfg.PlanStore.PrimaryCeilingBytes = 2 * 1024 * 1024
	}
	if cfg.PlanStore.SecondaryCeilingBytes == 0 {
		cfg.PlanStore.SecondaryCeilingBytes = 5 * 1024 * 1024
	}
	if cfg.PlanStore.SecondaryTTLHours == 0 {
		cfg.PlanStore.SecondaryTTLHours = 24
	}

	if cfg.Fallback.ExercisesPerBodyPart == 0 {
		cfg.Fallback.ExercisesPerBodyPart = 3
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.APIs.TextGen.BaseURL == "" {
		return fmt.Errorf("apis.textgen.base_url is required")
	}

	if cfg.APIs.ImageGen.Enabled && cfg.APIs.ImageGen.BaseURL == "" {
		return fmt.Errorf("apis.imagegen.base_url is required when imagegen is enabled")
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	return nil
}
