package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/lunarlane/punchclock/internal/config"
)

type envConfig struct {
	Env                     string `env:"ENV" envDefault:"production"`
	DiscordToken            string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID          string `env:"DISCORD_GUILD_ID,required"`
	DiscordSupervisorRoleID string `env:"DISCORD_SUPERVISOR_ROLE_ID"`
	ShiftTimezone           string `env:"SHIFT_TIMEZONE" envDefault:"UTC"`
	ShiftLogWebhookURL      string `env:"SHIFT_LOG_WEBHOOK_URL"`
	DatabaseURL             string `env:"DATABASE_URL"`
	DataFilePath            string `env:"DATA_FILE_PATH" envDefault:"data/sessions.json"`
	KeepAliveAddr           string `env:"KEEPALIVE_ADDR" envDefault:":8080"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                     raw.Env,
		DiscordToken:            raw.DiscordToken,
		DiscordGuildID:          raw.DiscordGuildID,
		DiscordSupervisorRoleID: raw.DiscordSupervisorRoleID,
		ShiftTimezone:           raw.ShiftTimezone,
		ShiftLogWebhookURL:      raw.ShiftLogWebhookURL,
		DatabaseURL:             raw.DatabaseURL,
		DataFilePath:            raw.DataFilePath,
		KeepAliveAddr:           raw.KeepAliveAddr,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
