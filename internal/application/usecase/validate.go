package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"studytracker/internal/domain"
)

func validateTopic(in *CreateTopicInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return domain.NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(in.Name) > domain.TopicNameMaxLen {
		return domain.NewValidationError("name",
			fmt.Sprintf("name must be at most %d characters", domain.TopicNameMaxLen))
	}
	return nil
}

func validateSession(in CreateSessionInput) error {
	if in.TopicID <= 0 {
		return domain.NewValidationError("topic_id", "topic_id is required")
	}
	if in.DurationMinutes == nil {
		return domain.NewValidationError("duration_minutes", "duration_minutes is required")
	}
	if d := *in.DurationMinutes; d < domain.MinDurationMinutes || d > domain.MaxDurationMinutes {
		return domain.NewValidationError("duration_minutes",
			fmt.Sprintf("duration_minutes must be between %d and %d",
				domain.MinDurationMinutes, domain.MaxDurationMinutes))
	}
	return nil
}
