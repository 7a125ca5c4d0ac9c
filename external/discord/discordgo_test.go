package discord

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/lunarlane/punchclock/internal/discord"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func TestRoleName_UsesStateCacheFirst(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected REST call: %s %s", req.Method, req.URL.String())
		return nil, nil
	})
	if err := s.State.GuildAdd(&discordgo.Guild{ID: "guild-1"}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}
	if err := s.State.RoleAdd("guild-1", &discordgo.Role{ID: "role-1", Name: "Kitchen"}); err != nil {
		t.Fatalf("failed to add role to state: %v", err)
	}

	c := &Client{session: s}
	name, err := c.RoleName("guild-1", "role-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Kitchen" {
		t.Fatalf("expected Kitchen, got %q", name)
	}
}

func TestRoleName_FallsBackToRESTWhenStateIsCold(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(req.URL.Path, "/guilds/guild-1/roles") {
			t.Fatalf("unexpected request path: %s", req.URL.Path)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`[{"id":"role-1","name":"Kitchen"}]`)),
		}, nil
	})

	c := &Client{session: s}
	name, err := c.RoleName("guild-1", "role-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Kitchen" {
		t.Fatalf("expected Kitchen, got %q", name)
	}
}

func TestMemberHasRole_UsesStateCache(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected REST call: %s %s", req.Method, req.URL.String())
		return nil, nil
	})
	if err := s.State.GuildAdd(&discordgo.Guild{ID: "guild-1"}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}
	if err := s.State.MemberAdd(&discordgo.Member{
		GuildID: "guild-1",
		User:    &discordgo.User{ID: "user-1"},
		Roles:   []string{"role-1", "role-2"},
	}); err != nil {
		t.Fatalf("failed to add member to state: %v", err)
	}

	c := &Client{session: s}
	has, err := c.MemberHasRole("guild-1", "user-1", "role-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !has {
		t.Fatal("expected member to have role-2")
	}
	has, err = c.MemberHasRole("guild-1", "user-1", "role-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if has {
		t.Fatal("expected member to lack role-9")
	}
}

func TestCommandOptions_MapsTypes(t *testing.T) {
	opts := commandOptions([]discordpkg.SlashCommandOption{
		{Name: "department", Type: discordpkg.OptionTypeRole, Required: true},
		{Name: "week_offset", Type: discordpkg.OptionTypeInteger},
		{Name: "bogus", Type: discordpkg.OptionType("string")},
	})
	if len(opts) != 2 {
		t.Fatalf("unknown option types must be dropped, got %d options", len(opts))
	}
	if opts[0].Type != discordgo.ApplicationCommandOptionRole || !opts[0].Required {
		t.Fatalf("unexpected role option: %+v", opts[0])
	}
	if opts[1].Type != discordgo.ApplicationCommandOptionInteger {
		t.Fatalf("unexpected integer option: %+v", opts[1])
	}
}

func TestButtonStyleMapping(t *testing.T) {
	if buttonStyle(discordpkg.ButtonStylePrimary) != discordgo.PrimaryButton {
		t.Fatal("primary style mismatch")
	}
	if buttonStyle(discordpkg.ButtonStyleDanger) != discordgo.DangerButton {
		t.Fatal("danger style mismatch")
	}
	if buttonStyle(discordpkg.ButtonStyleSecondary) != discordgo.SecondaryButton {
		t.Fatal("secondary style mismatch")
	}
}
