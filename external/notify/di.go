package notify

import (
	"github.com/lunarlane/punchclock/internal/config"
	"github.com/lunarlane/punchclock/internal/notify"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (notify.Sink, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPSink(c.ShiftLogWebhookURL), nil
	})
}
