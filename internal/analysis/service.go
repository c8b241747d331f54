package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/emotiscope/internal/clients"
	"github.com/spacesedan/emotiscope/internal/emotion"
	"github.com/spacesedan/emotiscope/internal/history"
	"github.com/spacesedan/emotiscope/internal/models"
)

// PUBLISH_TIMEOUT caps how long a single analysis waits on the publisher.
const PUBLISH_TIMEOUT = 5 * time.Second

var ErrEmptyInput = errors.New("input text is empty")

// Source records which path produced a result.
type Source string

const (
	SourceTriage   Source = "triage"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Remote is the emotion endpoint as seen by the service.
type Remote interface {
	Analyze(ctx context.Context, text string) clients.RemoteOutcome
}

// Publisher receives every analysis once it has been recorded.
type Publisher interface {
	Publish(ctx context.Context, item models.HistoryItem) error
}

type Analysis struct {
	Input   string
	Result  models.AnalysisResult
	Source  Source
	Failure *clients.AnalysisFailure
	Item    models.HistoryItem
}

type Service struct {
	remote    Remote
	store     *history.Store
	publisher Publisher

	// publishTimeout bounds each Publish call.
	publishTimeout time.Duration

	mu sync.Mutex
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

func NewService(remote Remote, store *history.Store, opts ...Option) *Service {
	s := &Service{remote: remote, store: store, publishTimeout: PUBLISH_TIMEOUT}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs one text through triage, the remote endpoint and the
// normalizer, then records it. Remote failures degrade to the neutral
// result; only empty input is reported as an error.
func (s *Service) Analyze(ctx context.Context, text string) (Analysis, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return Analysis{}, ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := Analysis{Input: input}
	if result, skip := emotion.Triage(input); skip {
		slog.Debug("[AnalysisService] Input triaged as neutral", slog.Int("length", len(input)))
		a.Result = result
		a.Source = SourceTriage
	} else {
		outcome := s.remote.Analyze(ctx, input)
		if outcome.OK() {
			a.Result = outcome.Result
			a.Source = SourceRemote
		} else {
			slog.Warn("[AnalysisService] Remote analysis failed, falling back to neutral",
				slog.String("kind", string(outcome.Failure.Kind)),
				slog.String("error", outcome.Failure.Error()))
			a.Result = emotion.NeutralResult()
			a.Source = SourceFallback
			a.Failure = outcome.Failure
		}
	}

	a.Result = emotion.Normalize(a.Result)

	item, err := s.store.Append(ctx, input, a.Result)
	if err != nil {
		slog.Error("[AnalysisService] Failed to persist history",
			slog.String("error", err.Error()))
	}
	a.Item = item

	if s.publisher != nil {
		s.publish(ctx, item)
	}

	return a, nil
}

func (s *Service) publish(ctx context.Context, item models.HistoryItem) {
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, item); err != nil {
		slog.Warn("[AnalysisService] Failed to publish analysis",
			slog.String("error", err.Error()))
	}
}

func (s *Service) History() *history.Store {
	return s.store
}
