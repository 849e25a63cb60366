package worker

import "go.uber.org/fx"

var Module = fx.Module("service.worker",
	fx.Provide(NewService, NewHandler),
)
