package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pg "pawsera/internal/adapters/storage/postgres"
	"pawsera/internal/platform/config"
	"pawsera/internal/platform/logger"
	"pawsera/internal/router"
)

// @title       Pawsera API
// @version     1.0
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	var db *sql.DB
	if cfg.DBDSN != "" {
		var err error
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("db open failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = pg.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Error("db migrate failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	h, err := router.NewRouter(router.Options{Config: cfg, Logger: log, DB: db})
	if err != nil {
		log.Error("router init failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"err": err.Error()})
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", map[string]any{"err": err.Error()})
	}
	log.Info("server stopped", nil)
}
