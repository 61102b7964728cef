package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTest        = "test"
)

type Config struct {
	Server    ServerConfig
	API       APIConfig
	Session   SessionConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Host         string
	Port         string        `validate:"required"`
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
	Environment  string        `validate:"oneof=development production test"`
	Language     string        `validate:"required"`
}

type APIConfig struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
	// Reachability probe period; zero disables the probe.
	ProbeInterval time.Duration `validate:"gte=0"`
}

type SessionConfig struct {
	// Postgres DSN for session storage; memory storage when empty.
	StorageURL   string
	Table        string
	Expiration   time.Duration `validate:"gt=0"`
	CookieSecure bool
}

type RedisConfig struct {
	// Verify rate limiting is disabled when empty.
	URL         string
	VerifyLimit int           `validate:"gte=0"`
	VerifyEvery time.Duration `validate:"gt=0"`
}

type StorageConfig struct {
	Type      string `validate:"oneof=local s3"`
	LocalPath string
	S3Bucket  string `validate:"required_if=Type s3"`
	S3Region  string `validate:"required_if=Type s3"`
}

type TelemetryConfig struct {
	Enabled        bool
	ExporterURL    string
	ServiceName    string `validate:"required"`
	ServiceVersion string
	Environment    string
	SamplingRatio  float64 `validate:"gte=0,lte=1"`
}

// Load reads an optional .env file and then builds the config from the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func NewConfig() *Config {
	environment := getEnv("SERVER_ENVIRONMENT", EnvironmentDevelopment)

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnv("SERVER_PORT", "3001"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			Environment:  environment,
			Language:     getEnv("SERVER_LANGUAGE", "zh-CN"),
		},
		API: APIConfig{
			BaseURL:       getEnv("API_BASE_URL", "https://hackathon-api.kaiyuanshe.cn/v2"),
			Timeout:       getEnvDuration("API_TIMEOUT", 15*time.Second),
			ProbeInterval: getEnvDuration("API_PROBE_INTERVAL", 30*time.Second),
		},
		Session: SessionConfig{
			StorageURL:   getEnv("SESSION_STORAGE_URL", ""),
			Table:        getEnv("SESSION_TABLE", "sessions"),
			Expiration:   getEnvDuration("SESSION_EXPIRATION", 24*time.Hour),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", environment == EnvironmentProduction),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", ""),
			VerifyLimit: getEnvInt("REDIS_VERIFY_LIMIT", 60),
			VerifyEvery: getEnvDuration("REDIS_VERIFY_WINDOW", time.Minute),
		},
		Storage: StorageConfig{
			Type:      getEnv("STORAGE_TYPE", "local"),
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "./archives"),
			S3Bucket:  getEnv("STORAGE_S3_BUCKET", ""),
			S3Region:  getEnv("STORAGE_S3_REGION", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:        getEnvBool("TELEMETRY_ENABLED", false),
			ExporterURL:    getEnv("TELEMETRY_EXPORTER_URL", ""),
			ServiceName:    getEnv("TELEMETRY_SERVICE_NAME", "openhackathon-web"),
			ServiceVersion: getEnv("TELEMETRY_SERVICE_VERSION", "dev"),
			Environment:    environment,
			SamplingRatio:  getEnvFloat("TELEMETRY_SAMPLING_RATIO", 1.0),
		},
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
