package handlers

import (
	"net/http"

	"studytracker/internal/application/usecase"
	"studytracker/internal/logger"
	"studytracker/internal/transport/http/envelope"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions *usecase.SessionUseCase
	log      *logger.Logger
}

func NewSessionHandler(sessions *usecase.SessionUseCase, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, log: log}
}

// POST /sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), usecase.CreateSessionInput{
		TopicID:         req.TopicID,
		StudyDate:       req.StudyDate.Ptr(),
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		envelope.FromError(c, h.log, err, "")
		return
	}
	c.JSON(http.StatusCreated, sessionToResponse(*session))
}
