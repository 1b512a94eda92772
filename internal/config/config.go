// internal/config/config.go

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Providers   ProviderConfig
	Cache       CacheConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration. An empty URL disables event
// publishing and the websocket refresh stream.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	RefreshSubject string
}

// ProviderConfig holds the upstream provider credentials and endpoints.
// Base URLs are overridable so tests can point clients at local servers.
type ProviderConfig struct {
	GeocodeAPIKey  string
	GeocodeBaseURL string
	WeatherAPIKey  string
	WeatherBaseURL string
	YelpAPIKey     string
	YelpBaseURL    string
	MoviesAPIKey   string
	MoviesBaseURL  string
	MeetupAPIKey   string
	MeetupBaseURL  string
	HikingAPIKey   string
	HikingBaseURL  string
	Timeout        time.Duration
}

// CacheConfig holds the per-kind staleness thresholds.
type CacheConfig struct {
	WeatherTTL     time.Duration
	RestaurantsTTL time.Duration
	MoviesTTL      time.Duration
	MeetupsTTL     time.Duration
	TrailsTTL      time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 3000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "cityscout"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			RefreshSubject: getEnv("NATS_REFRESH_SUBJECT", "cache.refresh"),
		},
		Providers: ProviderConfig{
			GeocodeAPIKey:  getEnv("GEOCODE_API_KEY", ""),
			GeocodeBaseURL: getEnv("GEOCODE_BASE_URL", "https://maps.googleapis.com"),
			WeatherAPIKey:  getEnv("DARKSKY_API_KEY", ""),
			WeatherBaseURL: getEnv("DARKSKY_BASE_URL", "https://api.darksky.net"),
			YelpAPIKey:     getEnv("YELP_API_KEY", ""),
			YelpBaseURL:    getEnv("YELP_BASE_URL", "https://api.yelp.com"),
			MoviesAPIKey:   getEnv("MOVIES_API_KEY", ""),
			MoviesBaseURL:  getEnv("MOVIES_BASE_URL", "https://api.themoviedb.org"),
			MeetupAPIKey:   getEnv("MEETUP_API_KEY", ""),
			MeetupBaseURL:  getEnv("MEETUP_BASE_URL", "https://api.meetup.com"),
			HikingAPIKey:   getEnv("HIKING_API_KEY", ""),
			HikingBaseURL:  getEnv("HIKING_BASE_URL", "https://www.hikingproject.com"),
			Timeout:        getEnvAsDuration("PROVIDER_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			WeatherTTL:     getEnvAsDuration("CACHE_WEATHER_TTL", 15*time.Second),
			RestaurantsTTL: getEnvAsDuration("CACHE_RESTAURANTS_TTL", 24*time.Hour),
			MoviesTTL:      getEnvAsDuration("CACHE_MOVIES_TTL", 24*time.Hour),
			MeetupsTTL:     getEnvAsDuration("CACHE_MEETUPS_TTL", 24*time.Hour),
			TrailsTTL:      getEnvAsDuration("CACHE_TRAILS_TTL", 24*time.Hour),
		},
	}

	return config, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
