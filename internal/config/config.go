package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Notification NotificationConfig `yaml:"notification"`
	Storage      StorageConfig      `yaml:"storage"`
	Log          LogConfig          `yaml:"log"`
	Platform     PlatformConfig     `yaml:"platform"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// AuthConfig contains JWT and identity-provider settings. When
// FirebaseCredentialsFile is set, bearer tokens are also accepted as
// Firebase ID tokens.
type AuthConfig struct {
	JWTSecret               string `yaml:"jwt_secret"`
	AccessTokenExpiryMins   int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiryMins  int    `yaml:"refresh_token_expiry_minutes"`
	FirebaseCredentialsFile string `yaml:"firebase_credentials_file"`
}

// NotificationConfig contains outbound notification channel settings
type NotificationConfig struct {
	SendGridAPIKey  string `yaml:"sendgrid_api_key"`
	FromEmail       string `yaml:"from_email"`
	FromName        string `yaml:"from_name"`
	WhatsAppAPIURL  string `yaml:"whatsapp_api_url"`
	WhatsAppAPIKey  string `yaml:"whatsapp_api_key"`
	MaxAttempts     int    `yaml:"max_attempts"`
	DispatchBatch   int    `yaml:"dispatch_batch"`
}

// StorageConfig contains file storage settings for car images and documents
type StorageConfig struct {
	Type          string   `yaml:"type"`       // "mock" for local filesystem
	UploadDir     string   `yaml:"upload_dir"` // for mock storage
	BaseURL       string   `yaml:"base_url"`   // server base URL for mock URLs
	MaxFileSizeMB int64    `yaml:"max_file_size_mb"`
	AllowedTypes  []string `yaml:"allowed_types"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PlatformConfig contains marketplace-level settings
type PlatformConfig struct {
	FeePercent float64 `yaml:"fee_percent"` // platform cut of completed earnings
}

// SchedulerConfig holds cron expressions (with seconds field) per job
type SchedulerConfig struct {
	ReconcileAvailability string `yaml:"reconcile_availability"`
	DispatchOutbox        string `yaml:"dispatch_outbox"`
	ReportElapsedUnpaid   string `yaml:"report_elapsed_unpaid"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Auth
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.JWTSecret = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Auth.FirebaseCredentialsFile = val
	}

	// Notification
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notification.SendGridAPIKey = val
	}
	if val := os.Getenv("WHATSAPP_API_KEY"); val != "" {
		c.Notification.WhatsAppAPIKey = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Auth.AccessTokenExpiryMins == 0 {
		c.Auth.AccessTokenExpiryMins = 15
	}
	if c.Auth.RefreshTokenExpiryMins == 0 {
		c.Auth.RefreshTokenExpiryMins = 60 * 24 * 7
	}
	if c.Notification.MaxAttempts == 0 {
		c.Notification.MaxAttempts = 5
	}
	if c.Notification.DispatchBatch == 0 {
		c.Notification.DispatchBatch = 50
	}
	if c.Platform.FeePercent == 0 {
		c.Platform.FeePercent = 10
	}
	if c.Scheduler.ReconcileAvailability == "" {
		c.Scheduler.ReconcileAvailability = "0 15 0 * * *" // nightly 00:15 UTC
	}
	if c.Scheduler.DispatchOutbox == "" {
		c.Scheduler.DispatchOutbox = "0 * * * * *" // every minute
	}
	if c.Scheduler.ReportElapsedUnpaid == "" {
		c.Scheduler.ReportElapsedUnpaid = "0 30 0 * * *" // nightly 00:30 UTC
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks that required settings are present
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Platform.FeePercent < 0 || c.Platform.FeePercent > 100 {
		return fmt.Errorf("platform.fee_percent must be between 0 and 100")
	}
	return nil
}

// GetServerAddress returns the host:port string for the HTTP server
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseConnectionString returns the PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Database, c.Database.SSLMode)
}
