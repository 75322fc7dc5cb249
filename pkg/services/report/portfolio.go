package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/services/period"
	"github.com/de-tools/report-relay/pkg/store/duckdb/loans"
	"github.com/rs/zerolog"
)

// PortfolioSummaryGenerator is period-sensitive: it reports per-route loan
// counts for the resolved reporting period.
type PortfolioSummaryGenerator struct {
	loans loans.Store
	now   func() time.Time
}

func NewPortfolioSummaryGenerator(loanStore loans.Store) *PortfolioSummaryGenerator {
	return &PortfolioSummaryGenerator{
		loans: loanStore,
		now:   time.Now,
	}
}

func (g *PortfolioSummaryGenerator) Generate(
	ctx context.Context,
	routeIDs []string,
	p *domain.Period,
) domain.Artifact {
	if p == nil {
		prev := period.Previous(g.now())
		p = &prev
	}

	counts, err := g.loans.CountLoans(ctx, routeIDs, p.Start(), p.End())
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("period", p.Label()).Msg("failed to count portfolio loans")
		return domain.Artifact{Kind: domain.ArtifactText, ErrorMessage: err.Error()}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Portfolio summary - %s\n\n", p.Label())

	total := 0
	for _, c := range counts {
		fmt.Fprintf(&sb, "%s: %d loans across %d localities\n", c.RouteName, c.Loans, c.Localities)
		total += c.Loans
	}
	if total == 0 {
		sb.WriteString("No loans signed in this period.\n")
	} else {
		fmt.Fprintf(&sb, "\nTotal: %d loans\n", total)
	}

	return domain.Artifact{
		Kind:    domain.ArtifactText,
		Text:    sb.String(),
		Caption: "Portfolio summary - " + p.Label(),
	}
}
