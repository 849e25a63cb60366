package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"banquet-backoffice/internal/server"
	"banquet-backoffice/pkg/config"
	"banquet-backoffice/pkg/db"
	"banquet-backoffice/pkg/health"
	"banquet-backoffice/pkg/logger"
	"banquet-backoffice/pkg/mailer"
	"banquet-backoffice/pkg/middleware"
	"banquet-backoffice/pkg/redis"
	"banquet-backoffice/pkg/storage"
	"banquet-backoffice/pkg/task"
	"banquet-backoffice/services/conflict"
	"banquet-backoffice/services/document"
	"banquet-backoffice/services/employer"
	"banquet-backoffice/services/event"
	"banquet-backoffice/services/notification"
	"banquet-backoffice/services/penalty"
	"banquet-backoffice/services/preregistration"
	"banquet-backoffice/services/quote"
	"banquet-backoffice/services/report"
	"banquet-backoffice/services/worker"

	"github.com/hibiken/asynq"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		task.Client,
		task.Server,
		mailer.Module,
		storage.Module,
		health.Module,
		server.Module,

		fx.Provide(provideSnowflakeNode),

		notification.Module,
		notification.TaskModule,
		preregistration.Module,
		event.Module,
		worker.Module,
		employer.Module,
		quote.Module,
		penalty.Module,
		conflict.Module,
		document.Module,
		report.Module,

		fx.Invoke(
			autoMigrate,
			registerRoutes,
			registerTasks,
		),
		fxLogger,
	)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func autoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&preregistration.PreRegistration{},
		&event.Event{},
		&event.Assignment{},
		&worker.Worker{},
		&employer.Employer{},
		&quote.Quote{},
		&penalty.Penalty{},
		&conflict.Conflict{},
		&document.Document{},
		&notification.Notification{},
	)
}

type routeParams struct {
	fx.In

	Engine *gin.Engine
	Config *config.Config
	Logger *zap.Logger
	Redis  *goredis.Client
	Health health.Service

	PreRegistrations *preregistration.Handler
	Events           *event.Handler
	Workers          *worker.Handler
	Employers        *employer.Handler
	Quotes           *quote.Handler
	Penalties        *penalty.Handler
	Conflicts        *conflict.Handler
	Documents        *document.Handler
	Reports          *report.Handler
	Notifications    *notification.Handler
}

func registerRoutes(p routeParams) {
	p.Engine.Use(
		middleware.RequestLogger(p.Logger),
		middleware.SecurityHeaders(),
		middleware.RateLimit(p.Redis, p.Config),
	)

	p.Engine.GET("/healthz", p.Health.Liveness)
	p.Engine.GET("/readyz", p.Health.Readiness)

	api := p.Engine.Group("/api")

	// The submission endpoint is the only unauthenticated API surface.
	p.PreRegistrations.RegisterPublicRoutes(api)

	admin := api.Group("", middleware.Auth(p.Config))
	p.PreRegistrations.RegisterRoutes(admin)
	p.Events.RegisterRoutes(admin)
	p.Workers.RegisterRoutes(admin)
	p.Employers.RegisterRoutes(admin)
	p.Quotes.RegisterRoutes(admin)
	p.Penalties.RegisterRoutes(admin)
	p.Conflicts.RegisterRoutes(admin)
	p.Documents.RegisterRoutes(admin)
	p.Reports.RegisterRoutes(admin)
	p.Notifications.RegisterRoutes(admin)
}

func registerTasks(mux *asynq.ServeMux, t *notification.Task) {
	mux.HandleFunc(task.TypeNotificationDeliver, t.HandleDeliver)
}
