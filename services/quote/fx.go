package quote

import "go.uber.org/fx"

var Module = fx.Module("service.quote",
	fx.Provide(NewService, NewHandler),
)
