package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/UnknownOlympus/athena/internal/auth"
	"github.com/UnknownOlympus/athena/internal/client"
	"github.com/UnknownOlympus/athena/internal/config"
	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/repository"
	"github.com/UnknownOlympus/athena/internal/server"
	"github.com/UnknownOlympus/athena/internal/services/employees"
	"github.com/UnknownOlympus/athena/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup
	delta := 2
	shutdownTimeout := 10 * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// .env is optional; variables already set win.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)
	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	var sessionRepo repository.SessionRepoIface
	if cfg.Postgres.Host != "" {
		dtb, err := repository.NewDatabase(
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()
		sessionRepo = repository.NewSessionRepository(dtb, appMetrics)
	} else {
		logger.WarnContext(ctx, "No database host configured, sessions are kept in memory")
		sessionRepo = repository.NewMemorySessionRepository(logger)
	}

	api := client.New(logger, client.CreateHTTPClient(logger, cfg.Backend.Timeout, cfg.Backend.URL), cfg.Backend.URL, appMetrics)
	store := auth.NewStore(logger, api, sessionRepo, appMetrics)
	directory := employees.NewDirectory(logger, api, appMetrics)
	handler := web.NewHandler(logger, store, directory, appMetrics, web.Options{
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.Secure,
		AssetBase:    api.BaseURL(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	wgr.Add(delta)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, sessionRepo, cfg.Monitoring.Port, cfg.Backend.URL)
	}()

	go func() {
		defer wgr.Done()
		logger.InfoContext(ctx, "Starting web server", "addr", cfg.HTTP.Addr, "backend", cfg.Backend.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "Web server failed", sl.Err(err))
			stop()
		}
		logger.InfoContext(ctx, "Web server stopped.")
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed to shut down web server", sl.Err(err))
	}

	wgr.Wait()

	logger.InfoContext(shutdownCtx, "Application stopped gracefully...")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
