package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env                     string
	DiscordToken            string
	DiscordGuildID          string
	DiscordSupervisorRoleID string
	ShiftTimezone           string
	ShiftLogWebhookURL      string
	DatabaseURL             string
	DataFilePath            string
	KeepAliveAddr           string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.DatabaseURL == "" && c.DataFilePath == "" {
		return fmt.Errorf("DATA_FILE_PATH is required when DATABASE_URL is not set")
	}
	if _, err := time.LoadLocation(c.ShiftTimezone); err != nil {
		return fmt.Errorf("SHIFT_TIMEZONE is invalid: %w", err)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_GUILD_ID", value: c.DiscordGuildID},
		{name: "SHIFT_TIMEZONE", value: c.ShiftTimezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
