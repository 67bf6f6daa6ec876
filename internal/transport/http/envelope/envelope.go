// Package envelope renders every failure as the same JSON error shape.
package envelope

import (
	"errors"
	"fmt"
	"net/http"

	"studytracker/internal/domain"
	"studytracker/internal/logger"

	"github.com/gin-gonic/gin"
)

// TraceIDKey is the gin context key holding the caller-supplied trace id.
const TraceIDKey = "trace_id"

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorEnvelope struct {
	TraceID string         `json:"trace_id,omitempty"`
	Error   ErrorDetail    `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// Code derives the machine-readable code from the HTTP status.
func Code(status int) string {
	return fmt.Sprintf("HTTP_%d", status)
}

// Abort writes the envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message, field string, details map[string]any) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		TraceID: c.GetString(TraceIDKey),
		Error: ErrorDetail{
			Code:    Code(status),
			Message: message,
			Field:   field,
		},
		Details: details,
	})
}

// FromError classifies err. Validation failures keep their message and field;
// anything that is neither a validation failure nor a not-found is logged and
// reported as a generic internal error.
func FromError(c *gin.Context, log *logger.Logger, err error, notFoundMessage string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		Abort(c, http.StatusBadRequest, ve.Message, ve.Field, nil)
	case errors.Is(err, domain.ErrNotFound):
		Abort(c, http.StatusNotFound, notFoundMessage, "", nil)
	default:
		if log != nil {
			log.Error("request failed", "path", c.FullPath(), "trace_id", c.GetString(TraceIDKey), "error", err)
		}
		Abort(c, http.StatusInternalServerError, "internal error", "", nil)
	}
}
