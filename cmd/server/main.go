// Command server runs the training-management API and its metrics listener.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"trainhub/internal/assignment"
	assignmenthandler "trainhub/internal/assignment/handler"
	assignmentservice "trainhub/internal/assignment/service"
	authhandler "trainhub/internal/auth/handler"
	authservice "trainhub/internal/auth/service"
	"trainhub/internal/catalog"
	cataloghandler "trainhub/internal/catalog/handler"
	catalogservice "trainhub/internal/catalog/service"
	"trainhub/internal/platform/config"
	"trainhub/internal/platform/httpserver"
	"trainhub/internal/platform/logger"
	"trainhub/internal/platform/metrics"
	"trainhub/internal/platform/middleware"
	questionhandler "trainhub/internal/question/handler"
	questionservice "trainhub/internal/question/service"
	reporthandler "trainhub/internal/report/handler"
	reportservice "trainhub/internal/report/service"
	"trainhub/internal/training"
	traininghandler "trainhub/internal/training/handler"
	trainingservice "trainhub/internal/training/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		catalogStore    catalog.Store
		trainingStore   training.Store
		assignmentStore assignment.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return err
		}
		catalogStore = catalog.NewPostgresStore(pool)
		trainingStore = training.NewPostgresStore(pool)
		assignmentStore = assignment.NewPostgresStore(pool)
		log.Info("using postgres stores")
	} else {
		catalogStore = catalog.NewInMemoryStore()
		trainingStore = training.NewInMemoryStore()
		assignmentStore = assignment.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	m := metrics.New()

	catalogSvc := catalogservice.New(catalogStore,
		catalogservice.WithLogger(log), catalogservice.WithMetrics(m))
	trainingSvc := trainingservice.New(trainingStore, catalogSvc, catalogSvc,
		trainingservice.WithLogger(log), trainingservice.WithMetrics(m))
	assignmentSvc := assignmentservice.New(assignmentStore, catalogSvc, catalogSvc, catalogSvc, trainingSvc,
		assignmentservice.WithLogger(log), assignmentservice.WithMetrics(m))
	reportSvc := reportservice.New(assignmentSvc, catalogSvc,
		reportservice.WithLogger(log))
	importer := questionservice.New(catalogSvc,
		questionservice.WithLogger(log), questionservice.WithMetrics(m))
	authSvc := authservice.New(catalogSvc, cfg.JWTSigningKey, cfg.TokenTTL,
		authservice.WithLogger(log), authservice.WithMetrics(m))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(chimiddleware.Timeout(30 * time.Second))

	router.Route("/api", func(r chi.Router) {
		// The question import endpoint takes a text/plain body, so it sits
		// outside the JSON content-type guard.
		questionhandler.New(importer, log).Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON)
			authhandler.New(authSvc, log).Register(r)
			cataloghandler.New(catalogSvc, log).Register(r)
			traininghandler.New(trainingSvc, log).Register(r)
			assignmenthandler.New(assignmentSvc, log).Register(r)
			reporthandler.New(reportSvc, log).Register(r)
		})
	})

	apiServer := httpserver.New(cfg.Addr, router)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := httpserver.New(cfg.MetricsAddr, metricsMux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("api listening", "addr", cfg.Addr)
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		err := apiServer.Shutdown(shutdownCtx)
		if merr := metricsServer.Shutdown(shutdownCtx); err == nil {
			err = merr
		}
		return err
	})

	return g.Wait()
}
