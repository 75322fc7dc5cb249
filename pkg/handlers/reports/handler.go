package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/de-tools/report-relay/pkg/adapters"
	"github.com/de-tools/report-relay/pkg/models/api"
	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/services/scheduler"
	"github.com/de-tools/report-relay/pkg/store/duckdb/configs"
	"github.com/de-tools/report-relay/pkg/store/duckdb/executions"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const defaultHistoryLimit = 20

// Pipeline runs a single report configuration. Implemented by the execution
// orchestrator.
type Pipeline interface {
	Execute(ctx context.Context, cfg domain.ReportConfig) domain.ExecutionResult
	Download(ctx context.Context, cfg domain.ReportConfig) domain.Artifact
}

// SchedulerControl is the slice of the scheduler controller the admin
// surface needs.
type SchedulerControl interface {
	Start(ctx context.Context) error
	Stop() error
	Status() scheduler.Status
}

type Handler struct {
	configs    configs.Store
	executions executions.Store
	scheduler  SchedulerControl
	pipeline   Pipeline

	// appCtx outlives individual requests. The scheduler loop started from
	// a POST must not die with that request's context.
	appCtx context.Context
}

func NewHandler(
	appCtx context.Context,
	configStore configs.Store,
	executionStore executions.Store,
	control SchedulerControl,
	pipeline Pipeline,
) *Handler {
	return &Handler{
		configs:    configStore,
		executions: executionStore,
		scheduler:  control,
		pipeline:   pipeline,
		appCtx:     appCtx,
	}
}

func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	s := h.scheduler.Status()
	writeJSON(r.Context(), w, api.SchedulerStatus{
		Running:         s.Running,
		ActiveConfigs:   s.ActiveConfigs,
		NextExecutionAt: s.NextExecutionAt,
		LastExecutionAt: s.LastExecutionAt,
	})
}

func (h *Handler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.Start(h.appCtx); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.SchedulerStatus(w, r)
}

func (h *Handler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.Stop(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.SchedulerStatus(w, r)
}

func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.configs.ListAll(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list report configs")
		http.Error(w, "failed to list report configs", http.StatusInternalServerError)
		return
	}

	response := make([]api.ReportConfig, 0, len(rows))
	for _, row := range rows {
		response = append(response, adapters.MapStoreConfigToAPI(row))
	}
	writeJSON(ctx, w, response)
}

// RunReport executes a configuration immediately, outside its schedule.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	row, err := h.configs.Get(ctx, id)
	if err != nil {
		http.Error(w, fmt.Sprintf("report config %q not found", id), http.StatusNotFound)
		return
	}

	result := h.pipeline.Execute(ctx, adapters.MapStoreConfigToDomain(*row))
	writeJSON(ctx, w, adapters.MapDomainExecutionToAPI(result))
}

// DownloadReport generates the artifact and returns it directly, bypassing
// delivery.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	row, err := h.configs.Get(ctx, id)
	if err != nil {
		http.Error(w, fmt.Sprintf("report config %q not found", id), http.StatusNotFound)
		return
	}

	artifact := h.pipeline.Download(ctx, adapters.MapStoreConfigToDomain(*row))
	if artifact.Failed() {
		http.Error(w, artifact.ErrorMessage, http.StatusBadGateway)
		return
	}

	switch artifact.Kind {
	case domain.ArtifactDocument:
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		if _, err := w.Write(artifact.Bytes); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("config", id).Msg("failed to write report document")
		}
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(artifact.Text)); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("config", id).Msg("failed to write report text")
		}
	}
}

func (h *Handler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.executions.ListRecent(ctx, defaultHistoryLimit)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list executions")
		http.Error(w, "failed to list executions", http.StatusInternalServerError)
		return
	}
	writeJSON(ctx, w, records)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
