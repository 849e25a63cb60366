package preregistration

import "go.uber.org/fx"

var Module = fx.Module("service.preregistration",
	fx.Provide(NewService, NewHandler),
)
