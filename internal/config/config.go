package config

import (
	"os"
	"strconv"
	"strings"

	"document-portal/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string
	DataDir        string
	MaxFileSize    int64
	LogLevel       string
	LogDir         string
	ConfigPath     string
	RegistryPath   string
	LLMProvider    string
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
	AllowedOrigins []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// PaaS platforms provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:     getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		DataDir:        getEnvOrDefault("DATA_DIR", "data/document_analyzer"),
		MaxFileSize:    getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogDir:         getEnvOrDefault("LOG_DIR", "logs"),
		ConfigPath:     getEnvOrDefault("CONFIG_PATH", "config/config.yaml"),
		RegistryPath:   getEnvOrDefault("REGISTRY_PATH", "data/sessions.db"),
		LLMProvider:    getEnvOrDefault("LLM_PROVIDER", "openai"),
		SupabaseURL:    getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:    getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseBucket: getEnvOrDefault("SUPABASE_BUCKET", "documents"),
		AllowedOrigins: getEnvListOrDefault("ALLOWED_ORIGINS", []string{
			"http://localhost:8501", // prototype UI
			"http://localhost:5173",
			"http://localhost:3000",
		}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetDataDir returns the base directory for session folders
func (c *AppConfig) GetDataDir() string {
	return c.DataDir
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogDir returns the directory for daily log files
func (c *AppConfig) GetLogDir() string {
	return c.LogDir
}

// GetConfigPath returns the YAML model config path
func (c *AppConfig) GetConfigPath() string {
	return c.ConfigPath
}

// GetRegistryPath returns the session registry database path
func (c *AppConfig) GetRegistryPath() string {
	return c.RegistryPath
}

// GetLLMProvider returns the default LLM provider
func (c *AppConfig) GetLLMProvider() string {
	return c.LLMProvider
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetSupabaseBucket returns the storage bucket used for mirroring
func (c *AppConfig) GetSupabaseBucket() string {
	return c.SupabaseBucket
}

// GetAllowedOrigins returns the CORS allow-list
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
