package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the flow-config service
type Config struct {
	// HTTP server configuration
	HTTP HTTPConfig

	// MongoDB configuration
	MongoDB MongoDBConfig

	// AWS configuration (Polly, SNS)
	AWS AWSConfig

	// Authentication configuration
	Auth AuthConfig

	// Runtime endpoint configuration
	Runtime RuntimeConfig

	// Speech preview configuration
	Speech SpeechConfig

	// UI branding configuration
	Branding BrandingConfig

	// Development mode (skips token signature verification)
	DevMode bool
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port        int
	CORSOrigins []string
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region string

	// AlertTopicARN is the SNS topic notified on unhandled errors.
	// Alerting is disabled when empty.
	AlertTopicARN string
}

// AuthConfig holds token verification configuration
type AuthConfig struct {
	// Issuer is the OIDC issuer URL, e.g.
	// https://cognito-idp.us-east-1.amazonaws.com/us-east-1_XXXX
	Issuer string

	// ClientID is the app client id expected in the aud claim
	ClientID string

	// UserPoolID is exposed to the UI via the init endpoint
	UserPoolID string

	// Group names mapped to access levels
	AdminGroup string
	EditGroup  string
	ReadGroup  string
}

// RuntimeConfig holds configuration for the contact-flow runtime endpoint
type RuntimeConfig struct {
	// APIKey is the static bearer key accepted on /runtime requests.
	// The runtime endpoint is disabled when empty.
	APIKey string
}

// SpeechConfig holds speech preview configuration
type SpeechConfig struct {
	// PreviewRatePerSecond limits Polly synthesis requests
	PreviewRatePerSecond float64
	PreviewBurst         int
}

// BrandingConfig holds UI branding configuration
type BrandingConfig struct {
	Name    string
	LogoURL string
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port:        getEnvInt("HTTP_PORT", 8080),
			CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:4200"}),
		},

		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "flowconfig"),
		},

		AWS: AWSConfig{
			Region:        getEnv("AWS_REGION", "us-east-1"),
			AlertTopicARN: getEnv("ALERT_TOPIC_ARN", ""),
		},

		Auth: AuthConfig{
			Issuer:     getEnv("AUTH_ISSUER", ""),
			ClientID:   getEnv("AUTH_CLIENT_ID", ""),
			UserPoolID: getEnv("AUTH_USER_POOL_ID", ""),
			AdminGroup: getEnv("AUTH_ADMIN_GROUP", "FlowConfigAdmin"),
			EditGroup:  getEnv("AUTH_EDIT_GROUP", "FlowConfigEdit"),
			ReadGroup:  getEnv("AUTH_READ_GROUP", "FlowConfigRead"),
		},

		Runtime: RuntimeConfig{
			APIKey: getEnv("RUNTIME_API_KEY", ""),
		},

		Speech: SpeechConfig{
			PreviewRatePerSecond: getEnvFloat("SPEECH_PREVIEW_RATE", 2),
			PreviewBurst:         getEnvInt("SPEECH_PREVIEW_BURST", 5),
		},

		Branding: BrandingConfig{
			Name:    getEnv("BRANDING_NAME", "Flow Config"),
			LogoURL: getEnv("BRANDING_LOGO_URL", ""),
		},

		DevMode: getEnvBool("FLOWCONFIG_DEV", false),
	}

	return cfg, nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return defaultValue
}
