package event

import "go.uber.org/fx"

var Module = fx.Module("service.event",
	fx.Provide(NewService, NewHandler),
)
