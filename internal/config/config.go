package config

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EmbeddedFS can be set to use embedded configuration files
var EmbeddedFS embed.FS

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Records   RecordsConfig   `mapstructure:"records"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	OTEL      OTELConfig      `mapstructure:"otel"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"` // debug, release, test
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RecordsConfig selects the record store backend
type RecordsConfig struct {
	Type string `mapstructure:"type"` // memory, postgres
}

// IsPostgres returns true if records are kept in PostgreSQL
func (r *RecordsConfig) IsPostgres() bool {
	return strings.ToLower(r.Type) == "postgres"
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// StorageConfig holds upload storage backend configuration
type StorageConfig struct {
	Type        string `mapstructure:"type"` // filesystem, s3
	BasePath    string `mapstructure:"base_path"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Prefix    string `mapstructure:"s3_prefix"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
	S3Endpoint  string `mapstructure:"s3_endpoint"` // For S3-compatible services
}

// IsS3 returns true if the storage type is S3
func (s *StorageConfig) IsS3() bool {
	return strings.ToLower(s.Type) == "s3"
}

// IsFilesystem returns true if the storage type is filesystem
func (s *StorageConfig) IsFilesystem() bool {
	return strings.ToLower(s.Type) == "filesystem" || s.Type == ""
}

// UploadsConfig bounds multipart uploads
type UploadsConfig struct {
	MaxRequestBytes int64 `mapstructure:"max_request_bytes"`
	MaxMemoryBytes  int64 `mapstructure:"max_memory_bytes"`
}

// DashboardConfig points the dashboard at the service exposing datasets and projects
type DashboardConfig struct {
	UpstreamURL    string `mapstructure:"upstream_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the upstream request timeout
func (d *DashboardConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// AuthConfig configures how bearer tokens are turned into identities
type AuthConfig struct {
	Mode      string `mapstructure:"mode"` // none, oidc, jwt
	IssuerURL string `mapstructure:"issuer_url"`
	ClientID  string `mapstructure:"client_id"`
	JWTSecret string `mapstructure:"jwt_secret"`
	JWTIssuer string `mapstructure:"jwt_issuer"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Output   string `mapstructure:"output"` // console, file, otel
	Format   string `mapstructure:"format"` // json, console
	FilePath string `mapstructure:"file_path"`
}

// OTELConfig holds OpenTelemetry log export configuration
type OTELConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	Insecure    bool   `mapstructure:"insecure"`
	UseHTTP     bool   `mapstructure:"use_http"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

// Load reads configuration from file and environment variables.
// Lookup order: explicit path, embedded filesystem, common locations.
// Environment variables always override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("REPODASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configLoaded := false

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			configLoaded = true
		}
	}

	if !configLoaded {
		embeddedConfig, err := tryLoadEmbeddedConfig(configPath)
		if err == nil && embeddedConfig != nil {
			if err := v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
				return nil, fmt.Errorf("failed to read embedded config: %w", err)
			}
			configLoaded = true
		}
	}

	if !configLoaded {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/repodash")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found; rely on defaults and env vars
		}
	}

	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func tryLoadEmbeddedConfig(configPath string) ([]byte, error) {
	entries, err := fs.ReadDir(EmbeddedFS, ".")
	if err != nil || len(entries) == 0 {
		return nil, fmt.Errorf("no embedded config available")
	}

	candidates := []string{"config.yaml", "config.yml"}
	if configPath != "" {
		candidates = append([]string{
			configPath,
			strings.TrimPrefix(configPath, "configs/"),
			strings.TrimPrefix(configPath, "./configs/"),
			strings.TrimPrefix(configPath, "./"),
		}, candidates...)
	}

	for _, path := range candidates {
		if data, err := fs.ReadFile(EmbeddedFS, path); err == nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("config file not found in embedded filesystem")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("records.type", "memory")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "repodash")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "repodash")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("storage.type", "filesystem")
	v.SetDefault("storage.base_path", "./uploads")
	v.SetDefault("storage.s3_prefix", "uploads/")

	v.SetDefault("uploads.max_request_bytes", 32<<20)
	v.SetDefault("uploads.max_memory_bytes", 8<<20)

	v.SetDefault("dashboard.upstream_url", "http://localhost:3000")
	v.SetDefault("dashboard.timeout_seconds", 10)

	v.SetDefault("auth.mode", "none")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "console")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file_path", "./logs/repodash.log")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "localhost:4317")
	v.SetDefault("otel.insecure", true)
	v.SetDefault("otel.service_name", "repodash")
	v.SetDefault("otel.environment", "development")
}

func overrideFromEnv(v *viper.Viper) {
	if dbPass := os.Getenv("REPODASH_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}

	// S3 credentials from the standard AWS variables
	if s3Key := os.Getenv("AWS_ACCESS_KEY_ID"); s3Key != "" {
		v.Set("storage.s3_access_key", s3Key)
	}
	if s3Secret := os.Getenv("AWS_SECRET_ACCESS_KEY"); s3Secret != "" {
		v.Set("storage.s3_secret_key", s3Secret)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Records.Type) {
	case "memory", "":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	default:
		return fmt.Errorf("invalid records type: %s", c.Records.Type)
	}

	if c.Storage.IsS3() {
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when using S3 storage")
		}
		if c.Storage.S3Region == "" {
			return fmt.Errorf("S3 region is required when using S3 storage")
		}
	} else if c.Storage.IsFilesystem() {
		if c.Storage.BasePath == "" {
			return fmt.Errorf("storage base path is required for filesystem storage")
		}
	} else {
		return fmt.Errorf("invalid storage type: %s", c.Storage.Type)
	}

	if c.Uploads.MaxRequestBytes <= 0 {
		return fmt.Errorf("uploads.max_request_bytes must be positive")
	}
	if c.Uploads.MaxMemoryBytes <= 0 {
		return fmt.Errorf("uploads.max_memory_bytes must be positive")
	}

	if c.Dashboard.UpstreamURL == "" {
		return fmt.Errorf("dashboard upstream url is required")
	}

	switch strings.ToLower(c.Auth.Mode) {
	case "none", "":
	case "oidc":
		if c.Auth.IssuerURL == "" || c.Auth.ClientID == "" {
			return fmt.Errorf("auth issuer_url and client_id are required in oidc mode")
		}
	case "jwt":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth jwt_secret is required in jwt mode")
		}
	default:
		return fmt.Errorf("invalid auth mode: %s", c.Auth.Mode)
	}

	if c.OTEL.Enabled && c.OTEL.Endpoint == "" {
		return fmt.Errorf("otel endpoint is required when otel is enabled")
	}

	return nil
}

// ServerAddress returns the HTTP server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == "debug" || c.Server.Mode == "development"
}
