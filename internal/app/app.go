package app

import (
	"context"
	"database/sql"
	"fmt"

	"poslink/internal/config"
	"poslink/internal/devicestate"
	"poslink/internal/domain/ports"
	"poslink/internal/infrastructure/httpapi"
	"poslink/internal/infrastructure/logger"
	"poslink/internal/infrastructure/printer"
	"poslink/internal/infrastructure/storage"
	"poslink/internal/infrastructure/terminal"
	"poslink/internal/service/checkout"
	"poslink/internal/service/monitor"
	"poslink/pkg/pax"
	"poslink/pkg/zpl"
)

// App собирает зависимости процесса. Создается один раз в main.
type App struct {
	Config config.Config
	Log    ports.Logger

	Configs  *storage.ServerConfigRepo
	Recovery *storage.RecoveryRepo
	Sessions *storage.SessionRepo

	State    *devicestate.Registry
	Router   *httpapi.Router
	API      *httpapi.Client
	Terminal *terminal.Registry
	Printer  *printer.Registry
	Checkout *checkout.Service
	Monitor  *monitor.Service

	db *sql.DB
}

// New открывает базу и связывает компоненты
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log, err := logger.New("poslink", cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		Configs:  storage.NewServerConfigRepo(db),
		Recovery: storage.NewRecoveryRepo(db),
		Sessions: storage.NewSessionRepo(db),
		State:    devicestate.NewRegistry(),
		db:       db,
	}

	a.Router = httpapi.NewRouter(nil, a.Configs, a.Sessions, httpapi.RouterOptions{
		ReadTimeout: cfg.ConfigReadTimeout,
		Logger:      log.Named("router"),
	})
	a.API = httpapi.NewClient(a.Router, cfg.APITimeout)

	termLog := log.Named("terminal")
	a.Terminal = terminal.NewRegistry(termLog,
		terminal.NewPaxProvider(pax.New(pax.Config{
			Timeout: cfg.TerminalTimeout,
			Logger:  logger.Func(termLog),
		})),
	)
	a.Printer = printer.NewRegistry(log.Named("printer"), cfg.PrinterTimeout, zpl.NewCodec(zpl.LayoutZQ520))

	a.Checkout = checkout.NewService(checkout.Deps{
		Configs:  a.Configs,
		Recovery: a.Recovery,
		Terminal: a.Terminal,
		Printer:  a.Printer,
		State:    a.State,
		Logger:   log.Named("checkout"),
	})

	a.Monitor = monitor.NewService(a.API, monitor.Config{
		PollInterval: cfg.MonitorInterval,
		PingTimeout:  cfg.APITimeout,
	}, log.Named("monitor"))

	if err := a.restoreTerminalID(ctx); err != nil {
		log.Warn("[APP] не удалось прочитать ID терминала: %v", err)
	}
	return a, nil
}

// restoreTerminalID заполняет ячейку ID терминала из активной конфигурации
func (a *App) restoreTerminalID(ctx context.Context) error {
	cfg, err := a.Configs.Active(ctx)
	if err != nil || cfg == nil {
		return err
	}
	a.State.TerminalID.Set(cfg.DataphoneTerminalID)
	return nil
}

// Close освобождает ресурсы
func (a *App) Close() error {
	a.Monitor.Stop()
	_ = a.Log.Sync()
	return a.db.Close()
}
