package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghostpayroll/internal/config"
	"ghostpayroll/internal/reasoning"
	"ghostpayroll/internal/shared/testutil"
	"ghostpayroll/pkg/contracts/domain"
	"ghostpayroll/pkg/contracts/events"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []recordedEvent
}

type recordedEvent struct {
	typ  events.MessageType
	data interface{}
}

func (p *recordingPublisher) Publish(_ context.Context, t events.MessageType, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, recordedEvent{typ: t, data: data})
}

func (p *recordingPublisher) types() []events.MessageType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.MessageType, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.typ
	}
	return out
}

func TestServices_PublishEvents(t *testing.T) {
	pub := &recordingPublisher{}
	logger, _ := testutil.NewTestLogger(t)
	batches := NewBatchStore(config.RecentUploadsLimit)

	analysis, err := NewAnalysisService(AnalysisDeps{
		Batches:  batches,
		Reasoner: newMockReasoner(reasoning.Outcome{OK: true, Summary: "clean", RiskDistribution: domain.RiskDistribution{}}),
		Logger:   logger,
		Events:   pub,
		Analysis: config.Default().Analysis,
	})
	require.NoError(t, err)
	uploads := NewUploadService(batches, logger, nil).WithEvents(pub)

	fx := testutil.NewWorkforceFixtures()
	for _, kind := range domain.RequiredDatasets {
		_, err := uploads.Upload(context.Background(), kind, string(kind)+".csv", strings.NewReader(fx.Files()[string(kind)]))
		require.NoError(t, err)
	}
	result := analysis.Analyze(context.Background())

	assert.Equal(t, []events.MessageType{
		events.MessageTypeUploadAccepted,
		events.MessageTypeUploadAccepted,
		events.MessageTypeUploadAccepted,
		events.MessageTypeUploadAccepted,
		events.MessageTypeAnalysisStarted,
		events.MessageTypeAnalysisCompleted,
	}, pub.types())

	last := pub.msgs[3].data.(events.UploadAccepted)
	assert.True(t, last.BatchComplete, "the fourth upload completes the batch")
	assert.False(t, pub.msgs[0].data.(events.UploadAccepted).BatchComplete)

	done := pub.msgs[5].data.(events.AnalysisCompleted)
	assert.Equal(t, result.ID, done.AnalysisID)
	assert.Equal(t, "clean", done.Summary)
}

func TestServices_IncompleteBatchPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	analysis, err := NewAnalysisService(AnalysisDeps{
		Reasoner: newMockReasoner(reasoning.Outcome{OK: true}),
		Events:   pub,
	})
	require.NoError(t, err)

	analysis.Analyze(context.Background())
	assert.Empty(t, pub.types())
}
