package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	// Storage backends.
	RedisURL       string
	GistID         string
	GistToken      string
	StaticDataFile string

	// Scheduling.
	CronSecret string
	ResetCron  string // optional in-process cron spec, e.g. "0 4 * * *"

	// Freeze threshold override; 0 means use the stored config value.
	MaxUnreadDays int

	// Notification channels.
	BarkURL           string
	WebhookURL        string
	WhatsAppAPIURL    string
	WhatsAppAPIKey    string
	WhatsAppGroupJID  string
	WhatsAppSenderURL string
	WhatsAppSenderOn  bool
	WhatsAppRecipient string

	LogLevel string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		RedisURL:          os.Getenv("REDIS_URL"),
		GistID:            os.Getenv("GIST_ID"),
		GistToken:         os.Getenv("GIST_TOKEN"),
		StaticDataFile:    os.Getenv("STATIC_DATA_FILE"),
		CronSecret:        os.Getenv("CRON_SECRET"),
		ResetCron:         os.Getenv("RESET_CRON"),
		MaxUnreadDays:     getEnvInt("MAX_UNREAD_DAYS", 0),
		BarkURL:           os.Getenv("BARK_URL"),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WhatsAppAPIURL:    os.Getenv("WHATSAPP_API_URL"),
		WhatsAppAPIKey:    os.Getenv("WHATSAPP_API_KEY"),
		WhatsAppGroupJID:  os.Getenv("WHATSAPP_GROUP_JID"),
		WhatsAppSenderURL: os.Getenv("WHATSAPP_SENDER_URL"),
		WhatsAppSenderOn:  os.Getenv("WHATSAPP_SENDER_ENABLED") == "true",
		WhatsAppRecipient: os.Getenv("WHATSAPP_RECIPIENT"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
