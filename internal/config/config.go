package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	SlackBotToken      string
	SlackAppToken      string
	SlackSigningSecret string
	DatabasePath       string
	Port               string

	OpenAIKey   string
	OpenAIModel string

	// Timezone used to render dates back to users and to read dates they type.
	Timezone string

	MinLeadTime       time.Duration
	NotifyTimeout     time.Duration
	DeliveryAttempts  int
	SweepInterval     time.Duration
	RetentionInterval time.Duration
	RetentionDays     int
	StartAttempts     int
}

func Load() *Config {
	return &Config{
		SlackBotToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackAppToken:      getEnv("SLACK_APP_TOKEN", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		DatabasePath:       getEnv("DATABASE_PATH", "./reminders.db"),
		Port:               getEnv("PORT", "3000"),
		OpenAIKey:          getEnv("OPENAI_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Timezone:           getEnv("TIMEZONE", "America/Sao_Paulo"),
		MinLeadTime:        getDurationEnv("MIN_LEAD_TIME", 10*time.Second),
		NotifyTimeout:      getDurationEnv("NOTIFY_TIMEOUT", 10*time.Second),
		DeliveryAttempts:   getIntEnv("DELIVERY_ATTEMPTS", 1),
		SweepInterval:      getDurationEnv("REMINDER_SWEEP_INTERVAL", 5*time.Minute),
		RetentionInterval:  getDurationEnv("REMINDER_RETENTION_INTERVAL", 24*time.Hour),
		RetentionDays:      getIntEnv("REMINDER_RETENTION_DAYS", 30),
		StartAttempts:      getIntEnv("SCHEDULER_START_ATTEMPTS", 5),
	}
}

// Location resolves Timezone, falling back to UTC when the zone is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
