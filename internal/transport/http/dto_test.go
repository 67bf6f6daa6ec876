package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"studytracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestStudyDateAcceptsDateAndTimestamp(t *testing.T) {
	var req CreateSessionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"study_date":"2025-01-01"}`), &req))
	assert.True(t, req.StudyDate.Ptr().Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, json.Unmarshal([]byte(`{"study_date":"2025-01-01T22:15:00Z"}`), &req))
	assert.Equal(t, 2025, req.StudyDate.Ptr().Year())
	assert.Equal(t, 22, req.StudyDate.Ptr().Hour())
}

func TestStudyDateRejectsGarbage(t *testing.T) {
	for _, raw := range []string{`{"study_date":"yesterday"}`, `{"study_date":20250101}`} {
		var req CreateSessionRequest
		err := json.Unmarshal([]byte(raw), &req)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, raw)
		assert.Equal(t, "study_date", ve.Field)
	}
}

func TestStudyDateOmittedIsNil(t *testing.T) {
	var req CreateSessionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"topic_id":1}`), &req))
	assert.Nil(t, req.StudyDate.Ptr())
}

func TestSessionResponseFormatsCalendarDate(t *testing.T) {
	res := sessionToResponse(domain.Session{
		ID:        1,
		TopicID:   2,
		StudyDate: datatypes.Date(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	assert.Equal(t, "2025-01-01", res.StudyDate)
}
