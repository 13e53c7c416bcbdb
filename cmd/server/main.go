package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/diewo77/invoicer/internal/config"
	"github.com/diewo77/invoicer/internal/db"
	"github.com/diewo77/invoicer/internal/logger"
	"github.com/diewo77/invoicer/internal/mailer"
)

const serviceName = "invoicer"

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: serviceName}).Fatal(ctx, "config.load_failed", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	conn, err := db.Open(ctx, cfg.Database, logg)
	if err != nil {
		logg.Fatal(ctx, "db.open_failed", err)
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logg.Error(ctx, "db.close_failed", err)
		}
	}()

	migrateOpts := db.MigrateOptions{URL: cfg.Database.URL, SQL: cfg.App.Migrations, Logger: logg}

	if *migrateOnlyFlag {
		if err := db.Migrate(ctx, conn, migrateOpts); err != nil {
			logg.Fatal(ctx, "db.migrate_failed", err)
		}
		return
	}

	if *seedOnlyFlag {
		if err := db.Seed(ctx, conn); err != nil {
			logg.Fatal(ctx, "db.seed_failed", err)
		}
		logg.Info(ctx, "db.seeded")
		return
	}

	if err := db.Migrate(ctx, conn, migrateOpts); err != nil {
		logg.Fatal(ctx, "db.migrate_failed", err)
	}
	if cfg.App.IsDev() {
		if err := db.Seed(ctx, conn); err != nil {
			logg.Fatal(ctx, "db.seed_failed", err)
		}
	}

	if missing := cfg.Mail.Missing(); len(missing) > 0 {
		logg.Warn(logg.WithField(ctx, "missing", missing), "mail.not_configured")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := NewApp(AppOptions{
		Config:   cfg,
		DB:       conn,
		Logger:   logg,
		Registry: reg,
		Mailer:   mailer.NewSMTPSender(cfg.Mail, logg),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info(logg.WithFields(ctx, map[string]any{"port": cfg.Server.Port, "env": cfg.App.Env}), "server.starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal(ctx, "server.failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info(ctx, "server.shutdown_signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "server.shutdown_failed", err)
	}
	logg.Info(ctx, "server.stopped")
}
