package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/report-relay/pkg/adapters"
	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/services/period"
	"github.com/de-tools/report-relay/pkg/services/report"
	"github.com/de-tools/report-relay/pkg/services/schedule"
	"github.com/de-tools/report-relay/pkg/store/archive"
	"github.com/de-tools/report-relay/pkg/store/duckdb/configs"
	"github.com/de-tools/report-relay/pkg/store/duckdb/executions"
	"github.com/de-tools/report-relay/pkg/store/duckdb/recipients"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Deliverer sends artifacts and messages to chat endpoints.
type Deliverer interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, doc []byte, filename, caption string) error
}

// Orchestrator runs one configuration end to end: generate the artifact
// once, then deliver it to each recipient sequentially. One recipient's
// failure never blocks the others.
type Orchestrator struct {
	registry   report.Registry
	recipients recipients.Store
	deliverer  Deliverer
	archive    archive.Store
	configs    configs.Store
	executions executions.Store

	now func() time.Time
}

func NewOrchestrator(
	registry report.Registry,
	recipientStore recipients.Store,
	deliverer Deliverer,
	artifactArchive archive.Store,
	configStore configs.Store,
	executionStore executions.Store,
) *Orchestrator {
	if artifactArchive == nil {
		artifactArchive = archive.Disabled{}
	}
	return &Orchestrator{
		registry:   registry,
		recipients: recipientStore,
		deliverer:  deliverer,
		archive:    artifactArchive,
		configs:    configStore,
		executions: executionStore,
		now:        time.Now,
	}
}

// Execute runs one configuration snapshot. It always returns a definitive
// tally; partial failures are recorded per recipient.
func (o *Orchestrator) Execute(ctx context.Context, cfg domain.ReportConfig) domain.ExecutionResult {
	logger := zerolog.Ctx(ctx).With().Str("config", cfg.ID).Str("type", string(cfg.Type)).Logger()
	ctx = logger.WithContext(ctx)

	started := o.now()
	result := domain.ExecutionResult{
		RunID:     uuid.NewString(),
		ConfigID:  cfg.ID,
		StartedAt: started,
	}

	prev := period.Previous(started)
	artifact := o.registry.Get(cfg.Type).Generate(ctx, cfg.RouteIDs, &prev)
	if artifact.Failed() {
		logger.Warn().Str("error", artifact.ErrorMessage).Msg("generation failed, notifying recipients")
	} else {
		o.archiveArtifact(ctx, cfg, artifact)
	}

	for _, userID := range cfg.RecipientIDs {
		chatID, ok, err := o.recipients.GetEndpoint(ctx, userID)
		if err != nil {
			logger.Error().Err(err).Str("recipient", userID).Msg("endpoint lookup failed")
			result.Failed++
			continue
		}
		if !ok {
			logger.Info().Str("recipient", userID).Msg("recipient has no active endpoint")
			result.NoEndpoint = append(result.NoEndpoint, userID)
			continue
		}

		if err := o.deliver(ctx, chatID, cfg, artifact); err != nil {
			logger.Error().Err(err).Str("recipient", userID).Msg("delivery failed")
			result.Failed++
			continue
		}
		result.Sent++
	}

	finished := o.now()
	result.FinishedAt = finished
	if next, err := schedule.Next(cfg.Rule, finished); err == nil {
		result.NextExecutionAt = next
	}

	// Last execution is recorded regardless of partial failure.
	if err := o.configs.SetLastExecution(ctx, cfg.ID, finished); err != nil {
		logger.Error().Err(err).Msg("failed to record last execution")
	}
	if err := o.executions.Add(ctx, adapters.MapDomainExecutionToStore(result)); err != nil {
		logger.Error().Err(err).Msg("failed to persist run history")
	}

	logger.Info().
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Int("no_endpoint", len(result.NoEndpoint)).
		Msg("execution finished")
	return result
}

// Download generates the artifact for the on-demand path, bypassing
// messaging delivery entirely: same generator, same inputs.
func (o *Orchestrator) Download(ctx context.Context, cfg domain.ReportConfig) domain.Artifact {
	prev := period.Previous(o.now())
	return o.registry.Get(cfg.Type).Generate(ctx, cfg.RouteIDs, &prev)
}

func (o *Orchestrator) deliver(ctx context.Context, chatID int64, cfg domain.ReportConfig, artifact domain.Artifact) error {
	if artifact.Failed() {
		text := fmt.Sprintf("%s: report generation failed: %s", cfg.Name, artifact.ErrorMessage)
		return o.deliverer.SendMessage(ctx, chatID, text)
	}

	switch artifact.Kind {
	case domain.ArtifactDocument:
		return o.deliverer.SendDocument(ctx, chatID, artifact.Bytes, artifact.Filename, artifact.Caption)
	default:
		return o.deliverer.SendMessage(ctx, chatID, artifact.Text)
	}
}

func (o *Orchestrator) archiveArtifact(ctx context.Context, cfg domain.ReportConfig, artifact domain.Artifact) {
	var (
		key         string
		data        []byte
		contentType string
	)
	switch artifact.Kind {
	case domain.ArtifactDocument:
		key = fmt.Sprintf("artifacts/%s/%s", cfg.ID, artifact.Filename)
		data = artifact.Bytes
		contentType = "application/pdf"
	default:
		key = fmt.Sprintf("artifacts/%s/%s.txt", cfg.ID, o.now().Format("2006-01-02"))
		data = []byte(artifact.Text)
		contentType = "text/plain"
	}

	if err := o.archive.Put(ctx, key, data, contentType); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("artifact archive failed")
	}
}
