package usecase

import (
	"context"
	"time"

	"studytracker/internal/domain"
	"studytracker/internal/infrastructure/cache"
	"studytracker/internal/infrastructure/repository"
	"studytracker/internal/logger"

	"gorm.io/datatypes"
)

type CreateSessionInput struct {
	TopicID         int64
	StudyDate       *time.Time // nil means today
	DurationMinutes *int
	Notes           *string
}

type SessionUseCase struct {
	store repository.Store
	cache *cache.TopicCache
	log   *logger.Logger
	now   func() time.Time
}

// NewSessionUseCase creates a SessionUseCase. c may be nil.
func NewSessionUseCase(store repository.Store, c *cache.TopicCache, log *logger.Logger) *SessionUseCase {
	return &SessionUseCase{store: store, cache: c, log: log, now: time.Now}
}

// Create logs a study session against an existing topic. An unknown topic is
// a validation failure, not a not-found.
func (uc *SessionUseCase) Create(ctx context.Context, in CreateSessionInput) (*domain.Session, error) {
	if err := validateSession(in); err != nil {
		return nil, err
	}

	now := uc.now()
	studyDate := now
	if in.StudyDate != nil {
		studyDate = *in.StudyDate
	}
	session := &domain.Session{
		TopicID:         in.TopicID,
		StudyDate:       calendarDate(studyDate),
		DurationMinutes: *in.DurationMinutes,
		Notes:           in.Notes,
		CreatedAt:       timestamp(now),
	}

	err := uc.store.Transaction(ctx, func(repo repository.Repository) error {
		exists, err := repo.TopicExists(ctx, in.TopicID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NewValidationError("topic_id", "Unknown topic_id")
		}
		return repo.CreateSession(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.InvalidateTopic(ctx, in.TopicID); err != nil {
			uc.log.Warn("topic cache invalidation failed", "topic_id", in.TopicID, "error", err)
		}
	}
	return session, nil
}

// calendarDate keeps the year, month and day of t as midnight UTC.
func calendarDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
