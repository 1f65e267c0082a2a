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

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "insightify/internal/adapters/http_server"
	"insightify/internal/adapters/observability"
	"insightify/internal/domain"
	"insightify/internal/shared"
	mysqlsrc "insightify/internal/storage/mysql"
	"insightify/internal/wiring"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLoggerTo(os.Stdout, cfg.AppEnv, os.Getenv("LOG_LEVEL"))

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// optional db-backed review source
	var src domain.ReviewSource
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		src = mysqlsrc.New(db)
	}

	// deps
	loader, svc, closeAll, err := wiring.Services(ctx, cfg, src)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}
	defer closeAll()

	// http
	srv := server.New(server.Options{MaxUploadBytes: cfg.MaxUploadBytes})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Svc: svc, Ready: loader})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.Backend).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// warm the classifier so the first upload does not pay for the load
		if _, err := loader.Load(gctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("classifier warm-up failed; will retry on first request")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("http server failed")
		closeAll()
		os.Exit(1)
	}
}
