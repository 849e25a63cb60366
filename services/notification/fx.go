package notification

import "go.uber.org/fx"

var Module = fx.Module("service.notification",
	fx.Provide(NewService, NewHandler),
)
