package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string
	Env                string
	LogLevel           string
	ActionAPIURL       string
	ActionTimeout      time.Duration
	SessionSecret      string
	LoadDelay          time.Duration
	ToolVersion        string
	MaxUploadBytes     int64
	SessionIdleTimeout time.Duration
	CORSOrigins        []string

	// Mail API backend
	MailAPIPort         string
	GmailConfigDir      string
	CleanupLabel        string
	DeleteInterval      time.Duration
	UnsubscribeInterval time.Duration
	UnsubscribeTimeout  time.Duration
	LargeEmailMB        float64
	AnalyzeMaxResults   int64
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:                v.GetString("PORT"),
		Env:                 v.GetString("ENV"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		ActionAPIURL:        strings.TrimRight(v.GetString("ACTION_API_URL"), "/"),
		ActionTimeout:       v.GetDuration("ACTION_TIMEOUT"),
		SessionSecret:       v.GetString("SESSION_SECRET"),
		LoadDelay:           v.GetDuration("LOAD_DELAY"),
		ToolVersion:         v.GetString("TOOL_VERSION"),
		MaxUploadBytes:      v.GetInt64("MAX_UPLOAD_BYTES"),
		SessionIdleTimeout:  v.GetDuration("SESSION_IDLE_TIMEOUT"),
		CORSOrigins:         splitList(v.GetString("CORS_ORIGINS")),
		MailAPIPort:         v.GetString("MAILAPI_PORT"),
		GmailConfigDir:      v.GetString("GMAIL_CONFIG_DIR"),
		CleanupLabel:        v.GetString("CLEANUP_LABEL"),
		DeleteInterval:      v.GetDuration("DELETE_INTERVAL"),
		UnsubscribeInterval: v.GetDuration("UNSUBSCRIBE_INTERVAL"),
		UnsubscribeTimeout:  v.GetDuration("UNSUBSCRIBE_TIMEOUT"),
		LargeEmailMB:        v.GetFloat64("LARGE_EMAIL_MB"),
		AnalyzeMaxResults:   v.GetInt64("ANALYZE_MAX_RESULTS"),
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ACTION_API_URL", "http://localhost:5000/api")
	v.SetDefault("ACTION_TIMEOUT", "5m")
	v.SetDefault("SESSION_SECRET", "8d1f0f0e-3c39-4f5e-9a7e-5d2a0b6c1e44")
	v.SetDefault("LOAD_DELAY", "1s")
	v.SetDefault("TOOL_VERSION", "2.0.0")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("SESSION_IDLE_TIMEOUT", "30m")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("MAILAPI_PORT", "5000")
	v.SetDefault("GMAIL_CONFIG_DIR", defaultGmailDir())
	v.SetDefault("CLEANUP_LABEL", "🤖 Email-Cleaner")
	v.SetDefault("DELETE_INTERVAL", "100ms")
	v.SetDefault("UNSUBSCRIBE_INTERVAL", "1s")
	v.SetDefault("UNSUBSCRIBE_TIMEOUT", "10s")
	v.SetDefault("LARGE_EMAIL_MB", 5.0)
	v.SetDefault("ANALYZE_MAX_RESULTS", 500)
}

func defaultGmailDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".inbox-dashboard"
	}
	return dir + string(os.PathSeparator) + "inbox-dashboard"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the settings shared by both servers.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.ActionAPIURL == "" {
		return fmt.Errorf("ACTION_API_URL is required")
	}
	if c.ActionTimeout < 0 {
		return fmt.Errorf("ACTION_TIMEOUT must not be negative")
	}
	if c.LoadDelay < 0 {
		return fmt.Errorf("LOAD_DELAY must not be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// ValidateMailAPI checks the settings the mail API backend needs.
func (c *Config) ValidateMailAPI() error {
	if c.MailAPIPort == "" {
		return fmt.Errorf("MAILAPI_PORT is required")
	}
	if c.GmailConfigDir == "" {
		return fmt.Errorf("GMAIL_CONFIG_DIR is required")
	}
	if c.DeleteInterval < 0 || c.UnsubscribeInterval < 0 {
		return fmt.Errorf("action intervals must not be negative")
	}
	if c.UnsubscribeTimeout <= 0 {
		return fmt.Errorf("UNSUBSCRIBE_TIMEOUT must be positive")
	}
	return nil
}
