package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/de-tools/report-relay/pkg/document"
	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/services/problems"
	"github.com/de-tools/report-relay/pkg/services/report"
	"github.com/de-tools/report-relay/pkg/store/duckdb"
	duckdbloans "github.com/de-tools/report-relay/pkg/store/duckdb/loans"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	reportType string
	routes     []string
	outPath    string
	title      string
)

// The CLI renders a single report to a local file, without the web surface
// or any delivery.
func main() {
	var rootCmd = &cobra.Command{
		Use:   "report",
		Short: "Render a report to a local file",
		RunE:  runReport,
	}

	rootCmd.Flags().StringVar(&dbPath, "db", "report-relay.db", "Path to the DuckDB database file")
	rootCmd.Flags().StringVarP(&reportType, "type", "t", string(domain.ReportTypeDocumentProblems),
		"Report type to render")
	rootCmd.Flags().StringSliceVarP(&routes, "routes", "r", nil, "Route IDs to include (default: all)")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: the report's filename)")
	rootCmd.Flags().StringVar(&title, "title", "Document Problem Report", "Report title")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReport(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	loanStore, err := duckdbloans.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create loan store: %w", err)
	}

	registry := report.NewRegistry(map[domain.ReportType]report.Generator{
		domain.ReportTypeDocumentProblems: report.NewDocumentProblemGenerator(
			problems.NewAggregator(loanStore), document.NewBuilder(title)),
		domain.ReportTypePortfolioSummary: report.NewPortfolioSummaryGenerator(loanStore),
	}, report.NewTextGenerator("report"))

	generator := registry.Get(domain.ReportType(reportType))
	artifact := generator.Generate(ctx, routes, nil)
	if artifact.Failed() {
		return fmt.Errorf("report generation failed: %s", artifact.ErrorMessage)
	}

	path := outPath
	content := artifact.Bytes
	if artifact.Kind == domain.ArtifactText {
		content = []byte(artifact.Text)
	}
	if path == "" {
		path = artifact.Filename
		if path == "" {
			path = strings.ReplaceAll(reportType, " ", "_") + ".txt"
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Report written to %s (%d bytes)\n", path, len(content))
	return nil
}
