package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"studytracker/internal/domain"
	"studytracker/internal/transport/http/envelope"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into dst, rendering a 400 envelope and
// returning false when the body is not usable.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var (
		ve      *domain.ValidationError
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &ve):
		envelope.Abort(c, http.StatusBadRequest, ve.Message, ve.Field, nil)
	case errors.As(err, &typeErr):
		envelope.Abort(c, http.StatusBadRequest, typeErr.Field+" must be of type "+typeErr.Type.String(), typeErr.Field, nil)
	case errors.Is(err, io.EOF):
		envelope.Abort(c, http.StatusBadRequest, "request body is required", "", nil)
	default:
		envelope.Abort(c, http.StatusBadRequest, "invalid JSON body", "", nil)
	}
	return false
}
