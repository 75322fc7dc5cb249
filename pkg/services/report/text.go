package report

import (
	"context"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/rs/zerolog"
)

const textTemplate = `{{ .Name }} report
Generated: {{ .Date }}{{ if .Period }}
Period: {{ .Period }}{{ end }}

This report type has no dedicated generator yet; the configuration fired as scheduled.`

// TextGenerator is the generic templated-text generator covering every
// report type without a dedicated generator.
type TextGenerator struct {
	name string
	tmpl *template.Template
	now  func() time.Time
}

func NewTextGenerator(name string) *TextGenerator {
	return &TextGenerator{
		name: name,
		tmpl: template.Must(template.New("text-report").Parse(textTemplate)),
		now:  time.Now,
	}
}

func (g *TextGenerator) Generate(ctx context.Context, _ []string, period *domain.Period) domain.Artifact {
	data := struct {
		Name   string
		Date   string
		Period string
	}{
		Name: g.name,
		Date: g.now().Format("2006-01-02 15:04"),
	}
	if period != nil {
		data.Period = period.Label()
	}

	var sb strings.Builder
	if err := g.tmpl.Execute(&sb, data); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("report", g.name).Msg("failed to render text report")
		return domain.Artifact{Kind: domain.ArtifactText, ErrorMessage: err.Error()}
	}

	return domain.Artifact{
		Kind:    domain.ArtifactText,
		Text:    sb.String(),
		Caption: g.name + " report",
	}
}
