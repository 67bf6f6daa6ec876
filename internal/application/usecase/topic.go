package usecase

import (
	"context"
	"strconv"
	"time"

	"studytracker/internal/domain"
	"studytracker/internal/infrastructure/cache"
	"studytracker/internal/infrastructure/repository"
	"studytracker/internal/logger"

	"golang.org/x/sync/singleflight"
)

const sharedReadTimeout = 5 * time.Second

type CreateTopicInput struct {
	Name        string
	Description *string
}

type TopicUseCase struct {
	store repository.Store
	cache *cache.TopicCache
	log   *logger.Logger
	now   func() time.Time
	sf    singleflight.Group
}

// NewTopicUseCase creates a TopicUseCase. If c is nil, caching is disabled.
func NewTopicUseCase(store repository.Store, c *cache.TopicCache, log *logger.Logger) *TopicUseCase {
	return &TopicUseCase{store: store, cache: c, log: log, now: time.Now}
}

// List returns all topics, most recently created first.
func (uc *TopicUseCase) List(ctx context.Context) ([]domain.Topic, error) {
	if uc.cache == nil {
		return uc.listFromStore(ctx)
	}
	v, err := uc.shared(ctx, "list", func(ctx context.Context) (any, error) {
		if topics, err := uc.cache.GetList(ctx); err != nil {
			uc.log.Warn("topic list cache read failed", "error", err)
		} else if topics != nil {
			return topics, nil
		}
		version, verErr := uc.cache.ListVersion(ctx)
		topics, err := uc.listFromStore(ctx)
		if err != nil {
			return nil, err
		}
		if verErr != nil {
			uc.log.Warn("topic list cache version read failed", "error", verErr)
			return topics, nil
		}
		if _, err := uc.cache.SetList(ctx, version, topics); err != nil {
			uc.log.Warn("topic list cache write failed", "error", err)
		}
		return topics, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Topic), nil
}

func (uc *TopicUseCase) Create(ctx context.Context, in CreateTopicInput) (*domain.Topic, error) {
	if err := validateTopic(&in); err != nil {
		return nil, err
	}
	topic := &domain.Topic{
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   timestamp(uc.now()),
	}
	err := uc.store.Transaction(ctx, func(repo repository.Repository) error {
		return repo.CreateTopic(ctx, topic)
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.InvalidateList(ctx); err != nil {
			uc.log.Warn("topic list cache invalidation failed", "error", err)
		}
	}
	return topic, nil
}

// Get returns the topic with all of its sessions in creation order, or
// domain.ErrNotFound.
func (uc *TopicUseCase) Get(ctx context.Context, id int64) (*domain.Topic, error) {
	if uc.cache == nil {
		return uc.getFromStore(ctx, id)
	}
	v, err := uc.shared(ctx, "detail:"+strconv.FormatInt(id, 10), func(ctx context.Context) (any, error) {
		if topic, err := uc.cache.GetTopic(ctx, id); err != nil {
			uc.log.Warn("topic cache read failed", "topic_id", id, "error", err)
		} else if topic != nil {
			return topic, nil
		}
		version, verErr := uc.cache.TopicVersion(ctx, id)
		topic, err := uc.getFromStore(ctx, id)
		if err != nil {
			return nil, err
		}
		if verErr != nil {
			uc.log.Warn("topic cache version read failed", "topic_id", id, "error", verErr)
			return topic, nil
		}
		if _, err := uc.cache.SetTopic(ctx, version, topic); err != nil {
			uc.log.Warn("topic cache write failed", "topic_id", id, "error", err)
		}
		return topic, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Topic), nil
}

// shared runs fn once for all concurrent callers of key. fn gets a context
// that outlives any single caller, bounded by sharedReadTimeout; each caller
// still stops waiting when its own ctx is done.
func (uc *TopicUseCase) shared(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	ch := uc.sf.DoChan(key, func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()
		return fn(readCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (uc *TopicUseCase) listFromStore(ctx context.Context) ([]domain.Topic, error) {
	var topics []domain.Topic
	err := uc.store.Transaction(ctx, func(repo repository.Repository) error {
		var err error
		topics, err = repo.ListTopics(ctx)
		return err
	})
	return topics, err
}

func (uc *TopicUseCase) getFromStore(ctx context.Context, id int64) (*domain.Topic, error) {
	var topic *domain.Topic
	err := uc.store.Transaction(ctx, func(repo repository.Repository) error {
		t, err := repo.GetTopic(ctx, id)
		if err != nil {
			return err
		}
		// Sessions are requested explicitly; nothing is lazily loaded.
		if t.Sessions, err = repo.ListSessions(ctx, id); err != nil {
			return err
		}
		topic = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return topic, nil
}

// timestamp drops sub-microsecond precision so values read back from
// Postgres or the cache compare equal to the ones returned on create.
func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
