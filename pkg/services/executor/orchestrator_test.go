package executor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/models/store"
	"github.com/de-tools/report-relay/pkg/services/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecipients struct {
	mock.Mock
}

func (m *mockRecipients) GetEndpoint(ctx context.Context, userID string) (int64, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

type mockDeliverer struct {
	mock.Mock
}

func (m *mockDeliverer) SendMessage(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func (m *mockDeliverer) SendDocument(ctx context.Context, chatID int64, doc []byte, filename, caption string) error {
	args := m.Called(ctx, chatID, doc, filename, caption)
	return args.Error(0)
}

type mockConfigs struct {
	mock.Mock
}

func (m *mockConfigs) ListAll(ctx context.Context) ([]store.ReportConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.ReportConfig), args.Error(1)
}

func (m *mockConfigs) ListActive(ctx context.Context) ([]store.ReportConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.ReportConfig), args.Error(1)
}

func (m *mockConfigs) Get(ctx context.Context, id string) (*store.ReportConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ReportConfig), args.Error(1)
}

func (m *mockConfigs) SetLastExecution(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type mockExecutions struct {
	mock.Mock
}

func (m *mockExecutions) Add(ctx context.Context, record store.ExecutionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockExecutions) ListRecent(ctx context.Context, limit int) ([]store.ExecutionRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]store.ExecutionRecord), args.Error(1)
}

type stubGenerator struct {
	artifact domain.Artifact
}

func (s *stubGenerator) Generate(context.Context, []string, *domain.Period) domain.Artifact {
	return s.artifact
}

func newFixture(artifact domain.Artifact) (*Orchestrator, *mockRecipients, *mockDeliverer, *mockConfigs, *mockExecutions) {
	registry := report.NewRegistry(map[domain.ReportType]report.Generator{
		domain.ReportTypeDocumentProblems: &stubGenerator{artifact: artifact},
	}, nil)

	recipientStore := &mockRecipients{}
	deliverer := &mockDeliverer{}
	configStore := &mockConfigs{}
	executionStore := &mockExecutions{}

	configStore.On("SetLastExecution", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	executionStore.On("Add", mock.Anything, mock.Anything).Return(nil)

	o := NewOrchestrator(registry, recipientStore, deliverer, nil, configStore, executionStore)
	return o, recipientStore, deliverer, configStore, executionStore
}

func docConfig(recipientIDs ...string) domain.ReportConfig {
	return domain.ReportConfig{
		ID:           "cfg-1",
		Name:         "Weekly document problems",
		Type:         domain.ReportTypeDocumentProblems,
		RecipientIDs: recipientIDs,
		Rule:         domain.RecurringRule{Weekdays: []time.Weekday{time.Monday}, Hour: 9},
		Active:       true,
	}
}

func TestOrchestrator_Execute(t *testing.T) {
	ctx := context.Background()
	artifact := domain.Artifact{
		Kind:     domain.ArtifactDocument,
		Bytes:    []byte("%PDF"),
		Filename: "report.pdf",
		Caption:  "weekly",
	}

	t.Run("recipient without endpoint is informational, not a failure", func(t *testing.T) {
		o, recipientStore, deliverer, configStore, executionStore := newFixture(artifact)

		recipientStore.On("GetEndpoint", mock.Anything, "R1").Return(int64(100), true, nil)
		recipientStore.On("GetEndpoint", mock.Anything, "R2").Return(int64(0), false, nil)
		deliverer.On("SendDocument", mock.Anything, int64(100), artifact.Bytes, "report.pdf", "weekly").Return(nil)

		result := o.Execute(ctx, docConfig("R1", "R2"))

		assert.Equal(t, 1, result.Sent)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, []string{"R2"}, result.NoEndpoint)
		configStore.AssertCalled(t, "SetLastExecution", mock.Anything, "cfg-1", mock.Anything)
		executionStore.AssertCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("one recipient's failure never blocks the others", func(t *testing.T) {
		o, recipientStore, deliverer, _, _ := newFixture(artifact)

		recipientStore.On("GetEndpoint", mock.Anything, "R1").Return(int64(100), true, nil)
		recipientStore.On("GetEndpoint", mock.Anything, "R2").Return(int64(200), true, nil)
		deliverer.On("SendDocument", mock.Anything, int64(100), mock.Anything, mock.Anything, mock.Anything).
			Return(fmt.Errorf("sendDocument failed after 3 attempts"))
		deliverer.On("SendDocument", mock.Anything, int64(200), mock.Anything, mock.Anything, mock.Anything).
			Return(nil)

		result := o.Execute(ctx, docConfig("R1", "R2"))

		assert.Equal(t, 1, result.Sent)
		assert.Equal(t, 1, result.Failed)
		deliverer.AssertNumberOfCalls(t, "SendDocument", 2)
	})

	t.Run("generation failure becomes a best-effort notification", func(t *testing.T) {
		failed := domain.Artifact{Kind: domain.ArtifactDocument, ErrorMessage: "store unavailable"}
		o, recipientStore, deliverer, _, _ := newFixture(failed)

		recipientStore.On("GetEndpoint", mock.Anything, "R1").Return(int64(100), true, nil)
		deliverer.On("SendMessage", mock.Anything, int64(100), mock.MatchedBy(func(text string) bool {
			return text != ""
		})).Return(nil)

		result := o.Execute(ctx, docConfig("R1"))

		assert.Equal(t, 1, result.Sent)
		deliverer.AssertNotCalled(t, "SendDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("next execution follows the recurring rule", func(t *testing.T) {
		o, recipientStore, _, _, _ := newFixture(artifact)
		recipientStore.On("GetEndpoint", mock.Anything, mock.Anything).Return(int64(0), false, nil)

		result := o.Execute(ctx, docConfig("R1"))

		require.False(t, result.NextExecutionAt.IsZero())
		assert.Equal(t, time.Monday, result.NextExecutionAt.Weekday())
		assert.Equal(t, 9, result.NextExecutionAt.Hour())
		assert.True(t, result.NextExecutionAt.After(result.FinishedAt))
	})

	t.Run("text artifacts are sent as messages", func(t *testing.T) {
		text := domain.Artifact{Kind: domain.ArtifactText, Text: "portfolio summary", Caption: "summary"}
		o, recipientStore, deliverer, _, _ := newFixture(text)

		recipientStore.On("GetEndpoint", mock.Anything, "R1").Return(int64(100), true, nil)
		deliverer.On("SendMessage", mock.Anything, int64(100), "portfolio summary").Return(nil)

		result := o.Execute(ctx, docConfig("R1"))
		assert.Equal(t, 1, result.Sent)
	})
}

func TestOrchestrator_Download(t *testing.T) {
	artifact := domain.Artifact{Kind: domain.ArtifactDocument, Bytes: []byte("%PDF"), Filename: "report.pdf"}
	o, _, deliverer, _, _ := newFixture(artifact)

	got := o.Download(context.Background(), docConfig())

	assert.Equal(t, artifact.Bytes, got.Bytes)
	deliverer.AssertNotCalled(t, "SendDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	deliverer.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}
