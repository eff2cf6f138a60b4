package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Apaleo (PMS) configuration.
	ApaleoTokenURL     string `mapstructure:"APALEO_TOKEN_URL"`
	ApaleoAPIBase      string `mapstructure:"APALEO_API_BASE"`
	ApaleoClientID     string `mapstructure:"APALEO_CLIENT_ID"`
	ApaleoClientSecret string `mapstructure:"APALEO_CLIENT_SECRET"`

	// Anthropic (chat assistant) configuration.
	AnthropicAPIKey string `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicAPIURL string `mapstructure:"ANTHROPIC_API_URL"`
	AnthropicModel  string `mapstructure:"ANTHROPIC_MODEL"`

	// Admin access to the pending-bookings listing.
	AdminAPIKey string `mapstructure:"ADMIN_API_KEY"`

	// File path of the pending-bookings ledger shared with the reminder job.
	PendingBookingsFile string `mapstructure:"PENDING_BOOKINGS_FILE"`

	// Comma-separated list of origins allowed to call the public API.
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "3002")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APALEO_TOKEN_URL", "https://identity.apaleo.com/connect/token")
	viper.SetDefault("APALEO_API_BASE", "https://api.apaleo.com")
	viper.SetDefault("APALEO_CLIENT_ID", "")
	viper.SetDefault("APALEO_CLIENT_SECRET", "")
	viper.SetDefault("ANTHROPIC_API_KEY", "")
	viper.SetDefault("ANTHROPIC_API_URL", "https://api.anthropic.com/v1/messages")
	viper.SetDefault("ANTHROPIC_MODEL", "claude-sonnet-4-20250514")
	viper.SetDefault("ADMIN_API_KEY", "")
	viper.SetDefault("PENDING_BOOKINGS_FILE", "pending_bookings.json")
	viper.SetDefault("ALLOWED_ORIGINS", "https://amanthosliving.com,https://www.amanthosliving.com,http://localhost:8080,http://localhost:3000,http://localhost:3002")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// AllowedOriginList splits the configured origins into a slice for the CORS layer.
func AllowedOriginList() []string {
	parts := strings.Split(AppConfig.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
