package discord

import (
	"context"
	"time"
)

type OptionType string

const (
	OptionTypeRole    OptionType = "role"
	OptionTypeInteger OptionType = "integer"
)

type SlashCommandOption struct {
	Name        string
	Description string
	Type        OptionType
	Required    bool
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOption
}

// SlashCommandEvent is one slash-command interaction. ReceivedAt is taken
// once at the shell boundary; core handlers never re-derive "now".
type SlashCommandEvent struct {
	GuildID          string
	ChannelID        string
	CommandName      string
	UserID           string
	RoleOptions      map[string]string
	IntOptions       map[string]int64
	ReceivedAt       time.Time
	RespondEphemeral func(content string) error
}

// ComponentEvent is one button press. CustomID carries the action and
// department encoded by the panel that posted the button.
type ComponentEvent struct {
	GuildID          string
	ChannelID        string
	CustomID         string
	UserID           string
	ReceivedAt       time.Time
	RespondEphemeral func(content string) error
}

type ButtonStyle string

const (
	ButtonStylePrimary   ButtonStyle = "primary"
	ButtonStyleSecondary ButtonStyle = "secondary"
	ButtonStyleDanger    ButtonStyle = "danger"
)

type Button struct {
	Label    string
	CustomID string
	Style    ButtonStyle
}

type PanelMessage struct {
	ChannelID string
	Content   string
	Buttons   []Button
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	Run() error
	GetBotUserID() (string, error)
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	RegisterComponentHandler(handler func(ComponentEvent))
	SendButtonPanel(msg PanelMessage) error
	MemberHasRole(guildID, userID, roleID string) (bool, error)
	RoleName(guildID, roleID string) (string, error)
}
