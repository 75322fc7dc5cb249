package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/report-relay/pkg/services/executor"
	"github.com/de-tools/report-relay/pkg/services/problems"
	"github.com/de-tools/report-relay/pkg/services/report"
	"github.com/de-tools/report-relay/pkg/services/scheduler"
	"github.com/de-tools/report-relay/pkg/store/duckdb"
	duckdbconfigs "github.com/de-tools/report-relay/pkg/store/duckdb/configs"
	duckdbexecutions "github.com/de-tools/report-relay/pkg/store/duckdb/executions"
	duckdbloans "github.com/de-tools/report-relay/pkg/store/duckdb/loans"
	duckdbrecipients "github.com/de-tools/report-relay/pkg/store/duckdb/recipients"

	"github.com/de-tools/report-relay/pkg/document"
	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/server"
	"github.com/de-tools/report-relay/pkg/services/config"
	"github.com/de-tools/report-relay/pkg/store/archive"
	"github.com/de-tools/report-relay/pkg/telegram"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the report delivery service",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "report-relay.yaml",
		"Path to the service configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.DBPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	loanStore, err := duckdbloans.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create loan store: %w", err)
	}
	configStore, err := duckdbconfigs.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create config store: %w", err)
	}
	recipientStore, err := duckdbrecipients.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create recipient store: %w", err)
	}
	executionStore, err := duckdbexecutions.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create execution store: %w", err)
	}

	deliverer, err := telegram.NewClient(telegram.Config{
		Token:       cfg.Telegram.Token,
		BaseURL:     cfg.Telegram.BaseURL,
		MaxAttempts: cfg.Telegram.MaxAttempts,
	})
	if err != nil {
		return fmt.Errorf("failed to create telegram client: %w", err)
	}

	var artifactArchive archive.Store
	if cfg.Archive.Bucket != "" {
		artifactArchive, err = archive.NewS3Store(ctx, archive.S3Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
		})
		if err != nil {
			return fmt.Errorf("failed to create artifact archive: %w", err)
		}
		logger.Info().Str("bucket", cfg.Archive.Bucket).Msg("artifact archive enabled")
	}

	aggregator := problems.NewAggregator(loanStore)
	builder := document.NewBuilder(cfg.ReportTitle)

	registry := report.NewRegistry(map[domain.ReportType]report.Generator{
		domain.ReportTypeDocumentProblems:  report.NewDocumentProblemGenerator(aggregator, builder),
		domain.ReportTypePortfolioSummary:  report.NewPortfolioSummaryGenerator(loanStore),
		domain.ReportTypeWeeklyCollections: report.NewTextGenerator("weekly collections"),
		domain.ReportTypeOverduePayments:   report.NewTextGenerator("overdue payments"),
	}, report.NewTextGenerator("report"))

	orchestrator := executor.NewOrchestrator(
		registry, recipientStore, deliverer, artifactArchive, configStore, executionStore)

	controller := scheduler.NewController(configStore, orchestrator)
	if err := controller.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	logger.Info().Msg("scheduler started")

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(ctx, logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Configs:    configStore,
			Executions: executionStore,
			Scheduler:  controller,
			Pipeline:   orchestrator,
		},
	})

	return api.Start()
}
