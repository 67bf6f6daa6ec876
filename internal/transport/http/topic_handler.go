package handlers

import (
	"net/http"
	"strconv"

	"studytracker/internal/application/usecase"
	"studytracker/internal/logger"
	"studytracker/internal/transport/http/envelope"

	"github.com/gin-gonic/gin"
)

type TopicHandler struct {
	topics *usecase.TopicUseCase
	log    *logger.Logger
}

func NewTopicHandler(topics *usecase.TopicUseCase, log *logger.Logger) *TopicHandler {
	return &TopicHandler{topics: topics, log: log}
}

// GET /topics
func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.topics.List(c.Request.Context())
	if err != nil {
		envelope.FromError(c, h.log, err, "")
		return
	}
	c.JSON(http.StatusOK, topicsToResponses(topics))
}

// POST /topics
func (h *TopicHandler) Create(c *gin.Context) {
	var req CreateTopicRequest
	if !bindJSON(c, &req) {
		return
	}

	topic, err := h.topics.Create(c.Request.Context(), usecase.CreateTopicInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		envelope.FromError(c, h.log, err, "")
		return
	}
	c.JSON(http.StatusCreated, topicToResponse(*topic))
}

// GET /topics/:topic_id
func (h *TopicHandler) GetOne(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("topic_id"), 10, 64)
	if err != nil || id <= 0 {
		envelope.Abort(c, http.StatusBadRequest, "topic_id must be a positive integer", "topic_id", nil)
		return
	}

	topic, err := h.topics.Get(c.Request.Context(), id)
	if err != nil {
		envelope.FromError(c, h.log, err, "Topic not found")
		return
	}
	c.JSON(http.StatusOK, topicWithSessionsToResponse(*topic))
}
