package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authboard/internal/common"
	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error kind to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the text a client may see for err.
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return internalErrorMessage
	}
	var e *common.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return http.StatusText(status)
}

func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: publicMessage(err, status)})
}
