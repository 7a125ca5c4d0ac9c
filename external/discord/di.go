package discord

import (
	"github.com/lunarlane/punchclock/internal/config"
	discordpkg "github.com/lunarlane/punchclock/internal/discord"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (discordpkg.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewClient(c.DiscordToken), nil
	})
}
