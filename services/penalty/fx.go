package penalty

import "go.uber.org/fx"

var Module = fx.Module("service.penalty",
	fx.Provide(NewService, NewHandler),
)
