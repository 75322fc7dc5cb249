package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/report-relay/pkg/document"
	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/services/problems"
	"github.com/rs/zerolog"
)

// DocumentProblemGenerator renders the document-problem PDF from the
// aggregated rows of the trailing two-month window.
type DocumentProblemGenerator struct {
	aggregator problems.Aggregator
	builder    *document.Builder
	now        func() time.Time
}

func NewDocumentProblemGenerator(aggregator problems.Aggregator, builder *document.Builder) *DocumentProblemGenerator {
	return &DocumentProblemGenerator{
		aggregator: aggregator,
		builder:    builder,
		now:        time.Now,
	}
}

func (g *DocumentProblemGenerator) Generate(
	ctx context.Context,
	routeIDs []string,
	period *domain.Period,
) domain.Artifact {
	logger := zerolog.Ctx(ctx)
	now := g.now()

	rows, err := g.aggregator.Collect(ctx, routeIDs, now)
	if err != nil {
		logger.Error().Err(err).Msg("failed to aggregate document problems")
		return domain.Artifact{Kind: domain.ArtifactDocument, ErrorMessage: err.Error()}
	}

	label := now.Format("January 2006")
	if period != nil {
		label = period.Label()
	}

	bytes, err := g.builder.Build(problems.GroupByWeek(rows), label, now)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build document problem report")
		return domain.Artifact{Kind: domain.ArtifactDocument, ErrorMessage: err.Error()}
	}

	return domain.Artifact{
		Kind:     domain.ArtifactDocument,
		Bytes:    bytes,
		Filename: fmt.Sprintf("document_problems_%s.pdf", now.Format("2006-01-02")),
		Caption:  "Document problem report - " + label,
	}
}
