package roster

import (
	"context"
	"log/slog"
	"sync"

	"github.com/starquake/quizroster/internal/logging"
)

// MemoryStore is a Store that keeps the roster in process memory. It is lost on restart.
type MemoryStore struct {
	mu           sync.RWMutex
	participants Roster
	logger       *slog.Logger
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		participants: make(Roster),
		logger:       logger,
	}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Enroll creates a participant for every name that is not enrolled yet.
func (s *MemoryStore) Enroll(ctx context.Context, names []string, quizIDs []string) (Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := 0
	for _, name := range names {
		if _, ok := s.participants[name]; ok {
			continue
		}
		s.participants[name] = NewParticipant(quizIDs)
		created++
	}

	s.logger.DebugContext(ctx, "enrolled participants",
		slog.Int("requested", len(names)),
		slog.Int("created", created),
	)

	return s.participants.Clone(), nil
}

// RecordScore sets the score of name for quizID. Unknown names are ignored.
func (s *MemoryStore) RecordScore(ctx context.Context, name, quizID string, score float64) (Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[name]
	if !ok {
		s.logger.DebugContext(ctx, "ignoring score for unknown participant",
			logging.Participant(name),
			logging.Quiz(quizID),
		)

		return s.participants.Clone(), nil
	}
	p.Scores[quizID] = &score

	return s.participants.Clone(), nil
}

// List returns a snapshot of the roster.
func (s *MemoryStore) List(_ context.Context) (Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.participants.Clone(), nil
}
