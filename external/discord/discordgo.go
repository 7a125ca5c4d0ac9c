package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/lunarlane/punchclock/internal/discord"
)

type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string
}

func NewClient(token string) discordpkg.Client {
	return &Client{
		token: token,
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds | discordgo.IntentsGuildMembers)
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.GetBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) GetBotUserID() (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		c.botUserID = c.session.State.User.ID
		return c.botUserID, nil
	}
	u, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

func (c *Client) RegisterSlashCommandHandler(handler func(discordpkg.SlashCommandEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		if data.Name == "" {
			return
		}
		userID := interactionUserID(ic)
		if userID == "" {
			return
		}
		roleOptions := make(map[string]string)
		intOptions := make(map[string]int64)
		for _, opt := range data.Options {
			if opt == nil {
				continue
			}
			switch opt.Type {
			case discordgo.ApplicationCommandOptionRole:
				roleOptions[opt.Name] = opt.RoleValue(nil, "").ID
			case discordgo.ApplicationCommandOptionInteger:
				intOptions[opt.Name] = opt.IntValue()
			}
		}
		slog.Info("slash command interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "command", data.Name, "user_id", userID)
		handler(discordpkg.SlashCommandEvent{
			GuildID:          ic.GuildID,
			ChannelID:        ic.ChannelID,
			CommandName:      data.Name,
			UserID:           userID,
			RoleOptions:      roleOptions,
			IntOptions:       intOptions,
			ReceivedAt:       time.Now(),
			RespondEphemeral: c.ephemeralResponder(s, ic),
		})
	})
}

func (c *Client) RegisterComponentHandler(handler func(discordpkg.ComponentEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionMessageComponent {
			return
		}
		data := ic.MessageComponentData()
		if data.CustomID == "" {
			return
		}
		userID := interactionUserID(ic)
		if userID == "" {
			return
		}
		slog.Info("component interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "custom_id", data.CustomID, "user_id", userID)
		handler(discordpkg.ComponentEvent{
			GuildID:          ic.GuildID,
			ChannelID:        ic.ChannelID,
			CustomID:         data.CustomID,
			UserID:           userID,
			ReceivedAt:       time.Now(),
			RespondEphemeral: c.ephemeralResponder(s, ic),
		})
	})
}

func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil && ic.Member.User.ID != "" {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

func (c *Client) ephemeralResponder(s *discordgo.Session, ic *discordgo.InteractionCreate) func(content string) error {
	return func(content string) error {
		return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}
}

func (c *Client) UpsertGuildSlashCommands(guildID string, defs []discordpkg.SlashCommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return fmt.Errorf("discord application id is not available")
	}
	existing, err := c.session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertGuildSlashCommand(appID, guildID, def, existingByName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertGuildSlashCommand(appID, guildID string, def discordpkg.SlashCommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := &discordgo.ApplicationCommand{
		Name:        def.Name,
		Description: def.Description,
		Options:     commandOptions(def.Options),
	}
	cmd, ok := existingByName[def.Name]
	if !ok {
		_, err := c.session.ApplicationCommandCreate(appID, guildID, payload)
		return err
	}
	if cmd.Description == def.Description && len(cmd.Options) == len(payload.Options) {
		return nil
	}
	_, err := c.session.ApplicationCommandEdit(appID, guildID, cmd.ID, payload)
	return err
}

func commandOptions(opts []discordpkg.SlashCommandOption) []*discordgo.ApplicationCommandOption {
	out := make([]*discordgo.ApplicationCommandOption, 0, len(opts))
	for _, opt := range opts {
		var t discordgo.ApplicationCommandOptionType
		switch opt.Type {
		case discordpkg.OptionTypeRole:
			t = discordgo.ApplicationCommandOptionRole
		case discordpkg.OptionTypeInteger:
			t = discordgo.ApplicationCommandOptionInteger
		default:
			continue
		}
		out = append(out, &discordgo.ApplicationCommandOption{
			Name:        opt.Name,
			Description: opt.Description,
			Type:        t,
			Required:    opt.Required,
		})
	}
	return out
}

func (c *Client) SendButtonPanel(msg discordpkg.PanelMessage) error {
	buttons := make([]discordgo.MessageComponent, 0, len(msg.Buttons))
	for _, b := range msg.Buttons {
		buttons = append(buttons, discordgo.Button{
			Label:    b.Label,
			CustomID: b.CustomID,
			Style:    buttonStyle(b.Style),
		})
	}
	_, err := c.session.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Content: msg.Content,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: buttons},
		},
	})
	return err
}

func buttonStyle(style discordpkg.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case discordpkg.ButtonStylePrimary:
		return discordgo.PrimaryButton
	case discordpkg.ButtonStyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.SecondaryButton
	}
}

func (c *Client) MemberHasRole(guildID, userID, roleID string) (bool, error) {
	member := c.resolveGuildMember(guildID, userID)
	if member == nil {
		return false, fmt.Errorf("guild member %s could not be resolved", userID)
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) RoleName(guildID, roleID string) (string, error) {
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil {
		role, err := c.session.State.Role(guildID, roleID)
		if err == nil && role != nil && role.Name != "" {
			return role.Name, nil
		}
	}

	// State may be cold right after startup; ask the API directly.
	roles, err := c.session.GuildRoles(guildID)
	if err != nil {
		return "", err
	}
	for _, role := range roles {
		if role != nil && role.ID == roleID {
			return role.Name, nil
		}
	}
	return "", fmt.Errorf("role %s not found in guild %s", roleID, guildID)
}

func (c *Client) resolveGuildMember(guildID, userID string) *discordgo.Member {
	if c.session == nil {
		return nil
	}
	if c.session.State != nil {
		member, err := c.session.State.Member(guildID, userID)
		if err == nil && member != nil {
			return member
		}
	}
	member, err := c.session.GuildMember(guildID, userID)
	if err != nil {
		return nil
	}
	return member
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	if c.session.State.Application != nil && c.session.State.Application.ID != "" {
		return c.session.State.Application.ID
	}
	if c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

func (c *Client) Run() error {
	select {}
}
