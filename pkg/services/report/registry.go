package report

import (
	"context"
	"sort"

	"github.com/de-tools/report-relay/pkg/models/domain"
)

// Generator produces one report artifact. Implementations never return an
// error; internal failures are captured as ErrorMessage on the artifact so
// the orchestrator can still notify recipients.
type Generator interface {
	Generate(ctx context.Context, routeIDs []string, period *domain.Period) domain.Artifact
}

// Registry maps report types to generators. The mapping is closed: it is
// built once at startup and never mutated, and Get resolves every input,
// falling back to the generic text generator for unregistered types.
type Registry interface {
	Get(reportType domain.ReportType) Generator
	Types() []domain.ReportType
}

type registry struct {
	generators map[domain.ReportType]Generator
	fallback   Generator
}

func NewRegistry(generators map[domain.ReportType]Generator, fallback Generator) Registry {
	if fallback == nil {
		fallback = NewTextGenerator("report")
	}
	closed := make(map[domain.ReportType]Generator, len(generators))
	for t, g := range generators {
		if g != nil {
			closed[t] = g
		}
	}
	return &registry{generators: closed, fallback: fallback}
}

func (r *registry) Get(reportType domain.ReportType) Generator {
	if g, ok := r.generators[reportType]; ok {
		return g
	}
	return r.fallback
}

func (r *registry) Types() []domain.ReportType {
	types := make([]domain.ReportType, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
