package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"focustracker/internal/config"
	"focustracker/internal/db"
	"focustracker/internal/focus"
	"focustracker/internal/handler"
	"focustracker/internal/lifecycle"
	"focustracker/internal/platform"
	"focustracker/internal/repository"
	"focustracker/internal/router"
	"focustracker/internal/service"
	"focustracker/internal/settings"
	"focustracker/internal/ticker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	if cfg.LogLevel != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	lock, err := platform.AcquireInstanceLock(cfg.LockPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	settingsPath := cfg.SettingsPath
	if settingsPath == "" {
		settingsPath, err = settings.DefaultPath()
		if err != nil {
			return err
		}
	}
	prefs, err := settings.Load(settingsPath)
	if err != nil {
		logger.Warn("using default settings", "path", settingsPath, "error", err)
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return err
	}

	sessionRepo := repository.NewSessionRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)

	machine := focus.New(prefs.SessionConfig(), focus.Options{
		Ticker:   ticker.New(time.Second),
		Recorder: focus.NewRecorder(sessionRepo, logger),
		Logger:   logger,
	})
	defer machine.Close()

	monitor := lifecycle.NewMonitor(machine, logger)

	authService, err := service.NewAuthService(cfg.APIPassphrase, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	categoryService := service.NewCategoryService(categoryRepo, logger)
	reportService := service.NewReportService(sessionRepo, logger)
	timerService := service.NewTimerService(service.TimerServiceOptions{
		Machine:      machine,
		Monitor:      monitor,
		Categories:   categoryService,
		Settings:     prefs,
		SettingsPath: settingsPath,
		Logger:       logger,
	})

	engine := router.New(authService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Timer:    handler.NewTimerHandler(timerService),
		Category: handler.NewCategoryHandler(categoryService),
		Report:   handler.NewReportHandler(reportService),
	}, cfg.CORSOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IdlePoll {
		poller := lifecycle.NewIdlePoller(lifecycle.NewXPrintIdleProvider(), monitor, cfg.IdleThreshold, 5*time.Second, logger)
		go func() {
			_ = poller.Run(ctx)
		}()
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("focustracker listening",
			"addr", server.Addr,
			"db", cfg.DBPath,
			"settings", settingsPath,
			"auth", authService.Enabled(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Closing the machine first ends open event streams.
	machine.Close()
	return server.Shutdown(shutdownCtx)
}
