package shift

import (
	"github.com/lunarlane/punchclock/internal/aggregate"
	"github.com/lunarlane/punchclock/internal/config"
	"github.com/lunarlane/punchclock/internal/discord"
	"github.com/lunarlane/punchclock/internal/notify"
	"github.com/lunarlane/punchclock/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*aggregate.Engine, error) {
		repo := do.MustInvoke[repository.Repository](i)
		return aggregate.NewEngine(repo), nil
	})
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		dc := do.MustInvoke[discord.Client](i)
		agg := do.MustInvoke[*aggregate.Engine](i)
		sink := do.MustInvoke[notify.Sink](i)
		return NewManager(cfg, repo, dc, agg, sink), nil
	})
}
