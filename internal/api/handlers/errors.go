package handlers

import (
	"errors"
	"net/http"

	"solar-storage-sim/internal/api/models"
	"solar-storage-sim/internal/dispatch"
	"solar-storage-sim/internal/store"

	"github.com/gin-gonic/gin"
)

// requestError is a problem with what the client sent.
type requestError struct {
	code string
	err  error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(code string, err error) error {
	return &requestError{code: code, err: err}
}

// respondError maps err to a status and error code. fallback is the code used
// for unexpected failures.
func respondError(c *gin.Context, err error, fallback string) {
	status, code := http.StatusInternalServerError, fallback

	var re *requestError
	var ie *dispatch.InputError
	switch {
	case errors.As(err, &re):
		status, code = http.StatusBadRequest, re.code
	case errors.Is(err, dispatch.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	}

	detail := models.ErrorDetail{Code: code, Message: err.Error()}
	if errors.As(err, &ie) {
		detail.Details = map[string]interface{}{"field": ie.Field}
	}
	c.JSON(status, models.ErrorResponse{Error: detail})
}
