package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/emotiscope/internal/models"
)

const (
	MAX_HISTORY_ITEMS   = 10
	DEFAULT_STORAGE_KEY = "analysisHistory"
	TIMESTAMP_LAYOUT    = "15:04:05 02/01/2006"
)

var ErrIndexOutOfRange = errors.New("history index out of range")

// Backend persists the serialized history under a single key. Load returns
// nil data and no error when nothing has been stored yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// Store owns the in-memory history and its persisted mirror. Items are kept
// newest first and capped at MAX_HISTORY_ITEMS; every mutation rewrites the
// whole serialized list.
type Store struct {
	backend Backend
	now     func() time.Time

	// writeMu orders backend writes with the mutations that produced them.
	writeMu sync.Mutex

	mu    sync.Mutex
	items []models.HistoryItem
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted history, replacing whatever is held in memory.
// Undecodable data is logged and treated as an empty history.
func (s *Store) Restore(ctx context.Context) ([]models.HistoryItem, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("[HistoryStore] failed to load history: %w", err)
	}

	var items []models.HistoryItem
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			slog.Warn("[HistoryStore] Persisted history is unreadable, starting empty",
				slog.String("error", err.Error()),
				slog.Int("raw_length", len(data)))
			items = nil
		}
	}
	if len(items) > MAX_HISTORY_ITEMS {
		items = items[:MAX_HISTORY_ITEMS]
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	slog.Debug("[HistoryStore] History restored", slog.Int("count", len(items)))
	return s.Items(), nil
}

// Append records a completed analysis at the front of the history.
// The in-memory history is updated even when persisting fails.
func (s *Store) Append(ctx context.Context, text string, result models.AnalysisResult) (models.HistoryItem, error) {
	confidence := result.Confidence
	item := models.HistoryItem{
		Timestamp:  s.now().Local().Format(TIMESTAMP_LAYOUT),
		Text:       text,
		Emotion:    result.Emotion,
		Scores:     result.Scores,
		Confidence: &confidence,
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	items := make([]models.HistoryItem, 0, MAX_HISTORY_ITEMS)
	items = append(items, item)
	items = append(items, s.items...)
	if len(items) > MAX_HISTORY_ITEMS {
		items = items[:MAX_HISTORY_ITEMS]
	}
	s.items = items
	data, err := json.Marshal(items)
	s.mu.Unlock()

	if err != nil {
		return item, fmt.Errorf("[HistoryStore] failed to marshal history: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return item, fmt.Errorf("[HistoryStore] failed to save history: %w", err)
	}
	return item, nil
}

// Clear drops every entry and removes the persisted state.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	if err := s.backend.Delete(ctx); err != nil {
		return fmt.Errorf("[HistoryStore] failed to delete history: %w", err)
	}
	slog.Info("[HistoryStore] History cleared")
	return nil
}

// Items returns a copy of the current history, newest first.
func (s *Store) Items() []models.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.HistoryItem{}, s.items...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns the entry at index i, where 0 is the newest.
func (s *Store) Get(i int) (models.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		return models.HistoryItem{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(s.items))
	}
	return s.items[i], nil
}
