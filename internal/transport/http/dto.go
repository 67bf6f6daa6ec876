package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"studytracker/internal/domain"
)

const dateLayout = "2006-01-02"

// StudyDate parses study_date as a calendar date ("2006-01-02"). An RFC 3339
// timestamp is accepted and reduced to its date.
type StudyDate struct{ t time.Time }

func (d *StudyDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.NewValidationError("study_date", "study_date must be a date string (YYYY-MM-DD)")
	}
	s := strings.TrimSpace(raw)
	for _, layout := range []string{dateLayout, time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, s); err == nil {
			d.t = parsed
			return nil
		}
	}
	return domain.NewValidationError("study_date", "study_date must be a date (YYYY-MM-DD)")
}

func (d *StudyDate) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	return &d.t
}

type CreateTopicRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CreateSessionRequest struct {
	TopicID         int64      `json:"topic_id"`
	StudyDate       *StudyDate `json:"study_date"`
	DurationMinutes *int       `json:"duration_minutes"`
	Notes           *string    `json:"notes"`
}

type TopicResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type TopicWithSessionsResponse struct {
	TopicResponse
	Sessions []SessionResponse `json:"sessions"`
}

type SessionResponse struct {
	ID              int64     `json:"id"`
	TopicID         int64     `json:"topic_id"`
	StudyDate       string    `json:"study_date"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func topicToResponse(t domain.Topic) TopicResponse {
	return TopicResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func topicsToResponses(list []domain.Topic) []TopicResponse {
	out := make([]TopicResponse, len(list))
	for i := range list {
		out[i] = topicToResponse(list[i])
	}
	return out
}

func topicWithSessionsToResponse(t domain.Topic) TopicWithSessionsResponse {
	sessions := make([]SessionResponse, len(t.Sessions))
	for i := range t.Sessions {
		sessions[i] = sessionToResponse(t.Sessions[i])
	}
	return TopicWithSessionsResponse{
		TopicResponse: topicToResponse(t),
		Sessions:      sessions,
	}
}

func sessionToResponse(s domain.Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		TopicID:         s.TopicID,
		StudyDate:       time.Time(s.StudyDate).Format(dateLayout),
		DurationMinutes: s.DurationMinutes,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
	}
}
