package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"github.com/couchcryptid/lunar-mansion-service/internal/observability"
	"github.com/couchcryptid/lunar-mansion-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

// mockExtractor hands out one prepared batch per call, then blocks until the
// context is cancelled to simulate waiting for messages.
type mockExtractor struct {
	batches [][]domain.RawEvent
	errs    []error
	calls   int
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.batches) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err  error
	rows int
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) ([]domain.ResultEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	n := m.rows
	if n == 0 {
		n = 1
	}
	out := make([]domain.ResultEvent, n)
	for i := range out {
		out[i] = domain.ResultEvent{XiuResult: domain.XiuResult{Note: string(raw.Key)}}
	}
	return out, nil
}

type mockLoader struct {
	loaded []domain.ResultEvent
	fails  int
	calls  int
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.ResultEvent) error {
	m.calls++
	if m.calls <= m.fails {
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawEvent(key string, committed *int) domain.RawEvent {
	return domain.RawEvent{
		Key:   []byte(key),
		Value: []byte(`{"date":"1961-09-12"}`),
		Topic: "xiu-requests",
		Commit: func(_ context.Context) error {
			*committed++
			return nil
		},
	}
}

func run(t *testing.T, p *pipeline.Pipeline) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	var commits int
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawEvent("a", &commits), rawEvent("b", &commits)}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), metrics, 10)
	require.Error(t, p.CheckReadiness(context.Background()))

	run(t, p)

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "a", ldr.loaded[0].Note)
	assert.Equal(t, 2, commits)
	assert.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.MessagesConsumed), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.MessagesProduced), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
}

func TestPipeline_Run_MonthRequestFansOut(t *testing.T) {
	var commits int
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawEvent("m", &commits)}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{rows: 30}, ldr, discardLogger(), metrics, 10)
	run(t, p)

	assert.Len(t, ldr.loaded, 30)
	assert.Equal(t, 1, commits)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MessagesConsumed), 0)
	assert.InDelta(t, 30, testutil.ToFloat64(metrics.MessagesProduced), 0)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_ResolveErrorSkipsAndCommits(t *testing.T) {
	var commits int
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawEvent("bad", &commits)}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{err: domain.ErrInvalidInput}, ldr, discardLogger(), metrics, 10)
	run(t, p)

	assert.Empty(t, ldr.loaded)
	assert.Equal(t, 1, commits)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RequestErrors), 0)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	var commits int
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawEvent("a", &commits)}}}
	ldr := &mockLoader{fails: 1}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	run(t, p)

	assert.Empty(t, ldr.loaded)
	assert.Equal(t, 0, commits)
}

func TestPipeline_Run_RecoversAfterExtractError(t *testing.T) {
	var commits int
	ext := &mockExtractor{
		batches: [][]domain.RawEvent{nil, {rawEvent("a", &commits)}},
		errs:    []error{errors.New("rebalance in progress")},
	}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	run(t, p)

	assert.Len(t, ldr.loaded, 1)
	assert.Equal(t, 1, commits)
}
