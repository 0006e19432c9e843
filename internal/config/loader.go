package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// TOMLConfig represents the TOML configuration file structure
type TOMLConfig struct {
	HTTP     TOMLHTTPConfig     `toml:"http"`
	MongoDB  TOMLMongoDBConfig  `toml:"mongodb"`
	AWS      TOMLAWSConfig      `toml:"aws"`
	Auth     TOMLAuthConfig     `toml:"auth"`
	Runtime  TOMLRuntimeConfig  `toml:"runtime"`
	Speech   TOMLSpeechConfig   `toml:"speech"`
	Branding TOMLBrandingConfig `toml:"branding"`
	Secrets  TOMLSecretsConfig  `toml:"secrets"`
	DevMode  bool               `toml:"dev_mode"`
}

// TOMLHTTPConfig represents HTTP configuration in TOML
type TOMLHTTPConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// TOMLMongoDBConfig represents MongoDB configuration in TOML
type TOMLMongoDBConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// TOMLAWSConfig represents AWS configuration in TOML
type TOMLAWSConfig struct {
	Region        string `toml:"region"`
	AlertTopicARN string `toml:"alert_topic_arn"`
}

// TOMLAuthConfig represents auth configuration in TOML
type TOMLAuthConfig struct {
	Issuer     string `toml:"issuer"`
	ClientID   string `toml:"client_id"`
	UserPoolID string `toml:"user_pool_id"`
	AdminGroup string `toml:"admin_group"`
	EditGroup  string `toml:"edit_group"`
	ReadGroup  string `toml:"read_group"`
}

// TOMLRuntimeConfig represents runtime endpoint configuration in TOML
type TOMLRuntimeConfig struct {
	APIKey string `toml:"api_key"`
}

// TOMLSpeechConfig represents speech preview configuration in TOML
type TOMLSpeechConfig struct {
	PreviewRatePerSecond float64 `toml:"preview_rate_per_second"`
	PreviewBurst         int     `toml:"preview_burst"`
}

// TOMLBrandingConfig represents UI branding configuration in TOML
type TOMLBrandingConfig struct {
	Name    string `toml:"name"`
	LogoURL string `toml:"logo_url"`
}

// TOMLSecretsConfig represents secrets provider configuration in TOML
type TOMLSecretsConfig struct {
	Provider      string `toml:"provider"`
	EncryptionKey string `toml:"encryption_key"`
	DataDir       string `toml:"data_dir"`

	// AWS
	AWSRegion   string `toml:"aws_region"`
	AWSPrefix   string `toml:"aws_prefix"`
	AWSEndpoint string `toml:"aws_endpoint"`

	// Vault
	VaultAddr      string `toml:"vault_addr"`
	VaultPath      string `toml:"vault_path"`
	VaultNamespace string `toml:"vault_namespace"`
}

// ConfigPaths lists the paths to search for config files
var ConfigPaths = []string{
	"config.toml",
	"application.toml",
	"flowconfig.toml",
	"./config/config.toml",
	"/etc/flowconfig/config.toml",
}

// LoadFromFile loads configuration from a TOML file
func LoadFromFile(path string) (*Config, error) {
	var tomlCfg TOMLConfig

	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return tomlConfigToConfig(&tomlCfg), nil
}

// LoadWithFile loads configuration from file first, then overrides with env vars
func LoadWithFile() (*Config, error) {
	// Start with defaults from environment
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	// Check for explicit config file path
	configPath := os.Getenv("FLOWCONFIG_CONFIG")
	if configPath == "" {
		// Search for config file in standard locations
		for _, path := range ConfigPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}
	}

	// If no config file found, just use env vars
	if configPath == "" {
		return cfg, nil
	}

	// Load from file
	fileCfg, err := LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	// Merge: file config as base, env vars override
	return mergeConfigs(fileCfg, cfg), nil
}

// tomlConfigToConfig converts TOML config to the internal Config struct
func tomlConfigToConfig(tc *TOMLConfig) *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:        tc.HTTP.Port,
			CORSOrigins: tc.HTTP.CORSOrigins,
		},
		MongoDB: MongoDBConfig{
			URI:      tc.MongoDB.URI,
			Database: tc.MongoDB.Database,
		},
		AWS: AWSConfig{
			Region:        tc.AWS.Region,
			AlertTopicARN: tc.AWS.AlertTopicARN,
		},
		Auth: AuthConfig{
			Issuer:     tc.Auth.Issuer,
			ClientID:   tc.Auth.ClientID,
			UserPoolID: tc.Auth.UserPoolID,
			AdminGroup: tc.Auth.AdminGroup,
			EditGroup:  tc.Auth.EditGroup,
			ReadGroup:  tc.Auth.ReadGroup,
		},
		Runtime: RuntimeConfig{
			APIKey: tc.Runtime.APIKey,
		},
		Speech: SpeechConfig{
			PreviewRatePerSecond: tc.Speech.PreviewRatePerSecond,
			PreviewBurst:         tc.Speech.PreviewBurst,
		},
		Branding: BrandingConfig{
			Name:    tc.Branding.Name,
			LogoURL: tc.Branding.LogoURL,
		},
		DevMode: tc.DevMode,
	}
}

// mergeConfigs merges two configs, with override taking precedence for non-zero values
func mergeConfigs(base, override *Config) *Config {
	result := *base

	// HTTP
	if override.HTTP.Port != 0 && override.HTTP.Port != 8080 {
		result.HTTP.Port = override.HTTP.Port
	}
	if len(override.HTTP.CORSOrigins) > 0 {
		result.HTTP.CORSOrigins = override.HTTP.CORSOrigins
	}

	// MongoDB
	if override.MongoDB.URI != "" && override.MongoDB.URI != "mongodb://localhost:27017" {
		result.MongoDB.URI = override.MongoDB.URI
	}
	if override.MongoDB.Database != "" && override.MongoDB.Database != "flowconfig" {
		result.MongoDB.Database = override.MongoDB.Database
	}

	// AWS
	if override.AWS.Region != "" && override.AWS.Region != "us-east-1" {
		result.AWS.Region = override.AWS.Region
	}
	if override.AWS.AlertTopicARN != "" {
		result.AWS.AlertTopicARN = override.AWS.AlertTopicARN
	}

	// Auth
	if override.Auth.Issuer != "" {
		result.Auth.Issuer = override.Auth.Issuer
	}
	if override.Auth.ClientID != "" {
		result.Auth.ClientID = override.Auth.ClientID
	}
	if override.Auth.UserPoolID != "" {
		result.Auth.UserPoolID = override.Auth.UserPoolID
	}
	if result.Auth.AdminGroup == "" {
		result.Auth.AdminGroup = override.Auth.AdminGroup
	}
	if result.Auth.EditGroup == "" {
		result.Auth.EditGroup = override.Auth.EditGroup
	}
	if result.Auth.ReadGroup == "" {
		result.Auth.ReadGroup = override.Auth.ReadGroup
	}

	// Runtime
	if override.Runtime.APIKey != "" {
		result.Runtime.APIKey = override.Runtime.APIKey
	}

	// Speech
	if result.Speech.PreviewRatePerSecond == 0 {
		result.Speech.PreviewRatePerSecond = override.Speech.PreviewRatePerSecond
	}
	if result.Speech.PreviewBurst == 0 {
		result.Speech.PreviewBurst = override.Speech.PreviewBurst
	}

	// Branding
	if override.Branding.Name != "" && override.Branding.Name != "Flow Config" {
		result.Branding.Name = override.Branding.Name
	}
	if override.Branding.LogoURL != "" {
		result.Branding.LogoURL = override.Branding.LogoURL
	}

	if override.DevMode {
		result.DevMode = true
	}

	return &result
}

// WriteExampleConfig writes an example configuration file
func WriteExampleConfig(path string) error {
	example := `# Flow Config Service Configuration
# Environment variables override these settings

[http]
port = 8080
cors_origins = ["http://localhost:4200"]

[mongodb]
uri = "mongodb://localhost:27017"
database = "flowconfig"

[aws]
region = "us-east-1"
alert_topic_arn = ""

[auth]
# OIDC issuer, e.g. https://cognito-idp.us-east-1.amazonaws.com/us-east-1_XXXX
issuer = ""
client_id = ""
user_pool_id = ""
admin_group = "FlowConfigAdmin"
edit_group = "FlowConfigEdit"
read_group = "FlowConfigRead"

[runtime]
# Static bearer key for the contact-flow runtime endpoint
api_key = ""

[speech]
preview_rate_per_second = 2.0
preview_burst = 5

[branding]
name = "Flow Config"
logo_url = ""

[secrets]
provider = "env"  # env, encrypted, aws-sm, vault

# Encrypted provider
encryption_key = ""
data_dir = "./data/secrets"

# AWS Secrets Manager
aws_region = ""
aws_prefix = "/flowconfig/"
aws_endpoint = ""

# HashiCorp Vault
vault_addr = ""
vault_path = "secret/data/flowconfig"
vault_namespace = ""

dev_mode = false
`

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, []byte(example), 0644)
}
