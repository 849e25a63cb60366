package conflict

import "go.uber.org/fx"

var Module = fx.Module("service.conflict",
	fx.Provide(NewService, NewHandler),
)
