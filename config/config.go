// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

// Config holds client configuration values loaded from file or environment variables.
type Config struct {
	APIBaseURL string `mapstructure:"API_BASE_URL"`
	// AuthScheme is the Authorization header scheme the backend expects,
	// either "Bearer" or "Token". Deployments have shipped with both.
	AuthScheme string `mapstructure:"AUTH_SCHEME"`

	TMDBBaseURL      string `mapstructure:"TMDB_BASE_URL"`
	TMDBAPIKey       string `mapstructure:"TMDB_API_KEY"`
	TMDBLanguage     string `mapstructure:"TMDB_LANGUAGE"`
	TMDBImageBaseURL string `mapstructure:"TMDB_IMAGE_BASE_URL"`

	RedisURL        string `mapstructure:"REDIS_URL"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`

	// CredentialsDB is the path of the local SQLite file holding the
	// persisted session (token + cached profile).
	CredentialsDB string `mapstructure:"CREDENTIALS_DB"`
}

// LoadConfig loads client configuration from file and environment variables.
func LoadConfig() *Config {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	// Set default values
	viper.SetDefault("API_BASE_URL", "http://localhost:8000/api")
	viper.SetDefault("AUTH_SCHEME", "Bearer")
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_LANGUAGE", "ko-KR")
	viper.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("CACHE_TTL_SECONDS", 600)
	viper.SetDefault("CREDENTIALS_DB", "cinememory.db")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode config into struct, %v", err)
	}

	return &config
}
