package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"studytracker/internal/domain"
)

// MemoryStore keeps topics and sessions in process memory. Transactions are
// serialised and a failed transaction restores the previous state.
type MemoryStore struct {
	mu         sync.Mutex
	topics     []domain.Topic
	sessions   []domain.Session
	topicSeq   int64
	sessionSeq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

type memorySnapshot struct {
	topics     []domain.Topic
	sessions   []domain.Session
	topicSeq   int64
	sessionSeq int64
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memorySnapshot{
		topics:     slices.Clone(s.topics),
		sessions:   slices.Clone(s.sessions),
		topicSeq:   s.topicSeq,
		sessionSeq: s.sessionSeq,
	}
	if err := fn(&memoryRepository{s: s}); err != nil {
		s.topics = snap.topics
		s.sessions = snap.sessions
		s.topicSeq = snap.topicSeq
		s.sessionSeq = snap.sessionSeq
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() error { return nil }

// memoryRepository is only used while the store mutex is held.
type memoryRepository struct {
	s *MemoryStore
}

func (r *memoryRepository) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	topics := slices.Clone(r.s.topics)
	if topics == nil {
		topics = []domain.Topic{}
	}
	slices.SortStableFunc(topics, func(a, b domain.Topic) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return topics, nil
}

func (r *memoryRepository) CreateTopic(ctx context.Context, t *domain.Topic) error {
	r.s.topicSeq++
	t.ID = r.s.topicSeq
	stored := *t
	stored.Sessions = nil
	r.s.topics = append(r.s.topics, stored)
	return nil
}

func (r *memoryRepository) GetTopic(ctx context.Context, id int64) (*domain.Topic, error) {
	i := r.topicIndex(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	topic := r.s.topics[i]
	return &topic, nil
}

func (r *memoryRepository) TopicExists(ctx context.Context, id int64) (bool, error) {
	return r.topicIndex(id) >= 0, nil
}

func (r *memoryRepository) DeleteTopic(ctx context.Context, id int64) error {
	i := r.topicIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.s.topics = slices.Delete(r.s.topics, i, i+1)
	r.s.sessions = slices.DeleteFunc(r.s.sessions, func(s domain.Session) bool {
		return s.TopicID == id
	})
	return nil
}

func (r *memoryRepository) ListSessions(ctx context.Context, topicID int64) ([]domain.Session, error) {
	sessions := []domain.Session{}
	for _, s := range r.s.sessions {
		if s.TopicID == topicID {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (r *memoryRepository) CreateSession(ctx context.Context, s *domain.Session) error {
	if r.topicIndex(s.TopicID) < 0 {
		return fmt.Errorf("create session: topic %d does not exist", s.TopicID)
	}
	r.s.sessionSeq++
	s.ID = r.s.sessionSeq
	r.s.sessions = append(r.s.sessions, *s)
	return nil
}

func (r *memoryRepository) topicIndex(id int64) int {
	return slices.IndexFunc(r.s.topics, func(t domain.Topic) bool { return t.ID == id })
}
