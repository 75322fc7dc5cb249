package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/report-relay/pkg/handlers/reports"

	relaymiddleware "github.com/de-tools/report-relay/pkg/server/middleware"
	"github.com/de-tools/report-relay/pkg/store/duckdb/configs"
	"github.com/de-tools/report-relay/pkg/store/duckdb/executions"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Configs    configs.Store
	Executions executions.Store
	Scheduler  handlers.SchedulerControl
	Pipeline   handlers.Pipeline
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(appCtx context.Context, logger zerolog.Logger, config Config) *WebAPI {
	reportsHandler := handlers.NewHandler(
		appCtx,
		config.Dependencies.Configs,
		config.Dependencies.Executions,
		config.Dependencies.Scheduler,
		config.Dependencies.Pipeline,
	)

	router := chi.NewRouter()

	router.Use(relaymiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/scheduler/status", reportsHandler.SchedulerStatus)
		r.Post("/scheduler/start", reportsHandler.StartScheduler)
		r.Post("/scheduler/stop", reportsHandler.StopScheduler)
		r.Get("/reports", reportsHandler.ListConfigs)
		r.Post("/reports/{id}/run", reportsHandler.RunReport)
		r.Get("/reports/{id}/download", reportsHandler.DownloadReport)
		r.Get("/executions", reportsHandler.ListExecutions)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
