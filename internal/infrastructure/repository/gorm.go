package repository

import (
	"context"
	"errors"
	"fmt"

	"studytracker/internal/domain"

	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the topics and sessions tables together with the
// sessions.topic_id foreign key (ON DELETE CASCADE).
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&domain.Topic{}, &domain.Session{})
}

func (s *GormStore) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormRepository struct {
	db *gorm.DB
}

func (r *gormRepository) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	topics := []domain.Topic{}
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (r *gormRepository) CreateTopic(ctx context.Context, t *domain.Topic) error {
	if err := r.db.WithContext(ctx).Omit("Sessions").Create(t).Error; err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

func (r *gormRepository) GetTopic(ctx context.Context, id int64) (*domain.Topic, error) {
	var topic domain.Topic
	err := r.db.WithContext(ctx).First(&topic, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get topic %d: %w", id, err)
	}
	return &topic, nil
}

func (r *gormRepository) TopicExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Topic{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check topic %d: %w", id, err)
	}
	return count > 0, nil
}

// DeleteTopic relies on the foreign key to remove the topic's sessions.
func (r *gormRepository) DeleteTopic(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Topic{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete topic %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gormRepository) ListSessions(ctx context.Context, topicID int64) ([]domain.Session, error) {
	sessions := []domain.Session{}
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("id asc").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions of topic %d: %w", topicID, err)
	}
	return sessions, nil
}

func (r *gormRepository) CreateSession(ctx context.Context, s *domain.Session) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}
