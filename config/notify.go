package config

import (
	"os"
)

type NotifyConfig struct {
	Channel    string
	WebhookURL string
	APIKey     string
}

func LoadNotifyConfig() *NotifyConfig {
	channel := os.Getenv("CHAT_NOTIFY_CHANNEL")
	if channel == "" {
		channel = "chat:notifications"
	}

	return &NotifyConfig{
		Channel:    channel,
		WebhookURL: os.Getenv("CHAT_NOTIFY_WEBHOOK_URL"),
		APIKey:     os.Getenv("X_API_KEY"),
	}
}
