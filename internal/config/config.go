package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the CRM service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	NATS     NATSConfig
	ViaCEP   ViaCEPConfig
	Digest   DigestConfig
	App      AppConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	MaintenanceDB string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
}

// NATSConfig holds NATS configuration for interaction event streaming
type NATSConfig struct {
	URL           string
	Enabled       bool
	MaxReconnects int
	ReconnectWait int // In seconds
}

// ViaCEPConfig holds ViaCEP postal-code lookup configuration
type ViaCEPConfig struct {
	BaseURL string
	Timeout int // In seconds
}

// DigestConfig holds overdue-task digest configuration
type DigestConfig struct {
	Enabled  bool
	Schedule string // Cron schedule for the digest job
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnvAsInt("DB_PORT", 5432),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "crm_db"),
			MaintenanceDB: getEnv("DB_MAINTENANCE_NAME", "postgres"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:  getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled:       getEnvAsBool("NATS_ENABLED", false),
			MaxReconnects: getEnvAsInt("NATS_MAX_RECONNECTS", -1),
			ReconnectWait: getEnvAsInt("NATS_RECONNECT_WAIT", 2), // seconds
		},
		ViaCEP: ViaCEPConfig{
			BaseURL: getEnv("VIACEP_BASE_URL", "https://viacep.com.br"),
			Timeout: getEnvAsInt("VIACEP_TIMEOUT", 10), // seconds
		},
		Digest: DigestConfig{
			Enabled:  getEnvAsBool("TASK_DIGEST_ENABLED", true),
			Schedule: getEnv("TASK_DIGEST_SCHEDULE", "0 8 * * *"), // 8 AM daily
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	return config, nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetMaintenanceDSN returns a connection string for the maintenance
// database, used to create the service database when it does not exist.
func (c *Config) GetMaintenanceDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.MaintenanceDB,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.App.Environment) == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.App.Environment) == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
