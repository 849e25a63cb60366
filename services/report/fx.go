package report

import "go.uber.org/fx"

var Module = fx.Module("service.report",
	fx.Provide(NewService, NewHandler),
)
