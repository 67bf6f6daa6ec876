package middleware

import (
	"strings"

	"studytracker/internal/transport/http/envelope"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderTraceID   = "X-Trace-Id"
	HeaderRequestID = "X-Request-Id"

	RequestIDKey = "request_id"
)

// TraceContext echoes a caller-supplied X-Trace-Id and assigns an X-Request-Id
// to every request. The trace id is never invented here: error envelopes only
// carry one when the caller sent it.
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(RequestIDKey, reqID)
		c.Writer.Header().Set(HeaderRequestID, reqID)

		if traceID := strings.TrimSpace(c.GetHeader(HeaderTraceID)); traceID != "" {
			c.Set(envelope.TraceIDKey, traceID)
			c.Writer.Header().Set(HeaderTraceID, traceID)
		}
		c.Next()
	}
}
