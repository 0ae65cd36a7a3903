// Package bot wires the archive application: command/callback surface,
// conversational workflow, and the runtime options handed to the bot core.
package bot

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/keeperbot/config"
	"github.com/m3rciful/keeperbot/core/bootstrap"
	coretelegram "github.com/m3rciful/keeperbot/core/telegram"
	"github.com/m3rciful/keeperbot/core/telegram/router"
	"github.com/m3rciful/keeperbot/core/telegram/state"
	"github.com/m3rciful/keeperbot/internal/service"
	"github.com/m3rciful/keeperbot/internal/storage"
)

// App owns the bot's wired components for the lifetime of the process.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	svc      *service.Archive
	sessions state.Store
	flow     *Flow
}

// NewApp runs the bootstrap pipeline (logger, database, migrations) and
// wires the application services.
func NewApp(cfg *config.Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	svc := service.NewArchive(
		storage.NewPostgresFolders(res.DB),
		storage.NewPostgresMedia(res.DB),
		storage.NewPostgresFeedback(res.DB),
	)
	sessions := storage.NewPostgresSessions(res.DB)
	flow := NewFlow(svc, sessions, cfg.Telegram.AdminID)

	return &App{
		cfg:      cfg,
		db:       res.DB,
		svc:      svc,
		sessions: sessions,
		flow:     flow,
	}, nil
}

// TelegramRunOptions assembles registry, middleware, and routes for the core
// runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.flow.RegisterCommands(reg)
	a.flow.RegisterCallbacks(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.MessageRoutes(a.flow.FSM(), reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
