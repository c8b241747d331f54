package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/emotiscope/config"
	"github.com/spacesedan/emotiscope/internal/analysis"
	"github.com/spacesedan/emotiscope/internal/clients"
	"github.com/spacesedan/emotiscope/internal/history"
	"github.com/spacesedan/emotiscope/internal/models"
)

type joyRemote struct{}

func (joyRemote) Analyze(_ context.Context, _ string) clients.RemoteOutcome {
	return clients.RemoteOutcome{Result: models.AnalysisResult{
		Emotion:    models.EmotionJoy,
		Confidence: 82,
		Scores:     models.EmotionScores{Joy: 82, Love: 12},
	}}
}

func newTestApp(input string) (*app, *bytes.Buffer) {
	store := history.NewStore(history.NewMemoryBackend())
	service := analysis.NewService(joyRemote{}, store)
	var out bytes.Buffer
	return newApp(service, nil, strings.NewReader(input), &out), &out
}

func TestRunAnalyzeThenHistory(t *testing.T) {
	a, out := newTestApp("")
	ctx := context.Background()

	require.Equal(t, 0, a.run(ctx, []string{"analyze", "what", "a", "great", "day"}))
	assert.Contains(t, out.String(), "Joy  (82%)")

	out.Reset()
	require.Equal(t, 0, a.run(ctx, []string{"history"}))
	assert.Contains(t, out.String(), "what a great day")

	out.Reset()
	require.Equal(t, 0, a.run(ctx, []string{"show", "1"}))
	assert.Contains(t, out.String(), `"what a great day"`)

	out.Reset()
	assert.Equal(t, 1, a.run(ctx, []string{"show", "2"}))
	assert.Contains(t, out.String(), "out of range")
}

func TestRunAnalyzeEmptyInputFails(t *testing.T) {
	a, out := newTestApp("")
	assert.Equal(t, 1, a.run(context.Background(), []string{"analyze", "   "}))
	assert.Contains(t, out.String(), analysis.ErrEmptyInput.Error())
	assert.Equal(t, 0, a.store.Len())
}

func TestClearAsksForConfirmation(t *testing.T) {
	ctx := context.Background()

	a, out := newTestApp("n\n")
	require.Equal(t, 0, a.run(ctx, []string{"analyze", "lovely weather today"}))
	require.Equal(t, 0, a.run(ctx, []string{"clear"}))
	assert.Contains(t, out.String(), "Cancelled.")
	assert.Equal(t, 1, a.store.Len())

	require.Equal(t, 0, a.run(ctx, []string{"clear", "-y"}))
	assert.Contains(t, out.String(), "History cleared.")
	assert.Equal(t, 0, a.store.Len())
}

func TestReplSession(t *testing.T) {
	script := strings.Join([]string{
		"I am so happy today",
		"/analyze another fine day",
		"ok",
		"/history",
		"/stats",
		"/bogus",
		"/clear-history",
		"y",
		"/history",
		"/quit",
		"never analyzed",
	}, "\n")
	a, out := newTestApp(script)

	require.Equal(t, 0, a.run(context.Background(), []string{"repl"}))

	text := out.String()
	assert.Contains(t, text, "Joy  (82%)")
	assert.Contains(t, text, "Neutral  (100%)")
	assert.Contains(t, text, "Average over 3 analyses")
	assert.Contains(t, text, "unknown command /bogus")
	assert.Contains(t, text, "History cleared.")
	assert.Contains(t, text, "No analyses yet.")
	assert.NotContains(t, text, "never analyzed")
	assert.Equal(t, 0, a.store.Len())
}

func TestOpenHistoryBackend(t *testing.T) {
	ctx := context.Background()

	cfg := config.AppConfig{History: config.HistoryConfig{Backend: "memory"}}
	backend, cleanup, err := openHistoryBackend(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &history.MemoryBackend{}, backend)

	cfg.History = config.HistoryConfig{Backend: "file", FilePath: t.TempDir() + "/history.json"}
	backend, _, err = openHistoryBackend(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &history.FileBackend{}, backend)

	cfg.History.Backend = "sqlite"
	_, _, err = openHistoryBackend(ctx, cfg)
	assert.ErrorContains(t, err, "unknown history backend")
}
