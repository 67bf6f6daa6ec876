package repository

import (
	"context"

	"studytracker/internal/domain"
)

// Repository is the set of storage operations available inside a transaction.
// Lookups of a missing row return domain.ErrNotFound.
type Repository interface {
	ListTopics(ctx context.Context) ([]domain.Topic, error)
	CreateTopic(ctx context.Context, t *domain.Topic) error
	GetTopic(ctx context.Context, id int64) (*domain.Topic, error)
	TopicExists(ctx context.Context, id int64) (bool, error)
	// DeleteTopic has no HTTP route; it exists so the ON DELETE CASCADE
	// constraint can be exercised against every backend.
	DeleteTopic(ctx context.Context, id int64) error

	ListSessions(ctx context.Context, topicID int64) ([]domain.Session, error)
	CreateSession(ctx context.Context, s *domain.Session) error
}

// Store hands out transactional repositories. fn's changes are committed when it
// returns nil and discarded otherwise.
type Store interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}
