package employer

import "go.uber.org/fx"

var Module = fx.Module("service.employer",
	fx.Provide(NewService, NewHandler),
)
