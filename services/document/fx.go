package document

import "go.uber.org/fx"

var Module = fx.Module("service.document",
	fx.Provide(NewService, NewHandler),
)
