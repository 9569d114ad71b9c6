// internal/api/result.go
package api

import (
	"net/http"

	"career-workers/internal/common/errors"

	"github.com/gin-gonic/gin"
)

// Result is the envelope every JSON endpoint answers with. Code is 0 on success.
type Result struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// ErrorBody is carried in Result.Data when a request fails.
type ErrorBody struct {
	ErrorCode string `json:"errorCode"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Result{Msg: "OK", Data: data})
}

// fail maps err to an HTTP status and writes it as a Result.
func fail(c *gin.Context, err error) {
	stdErr := errors.Normalize(err)
	status := statusFor(stdErr)
	c.JSON(status, Result{
		Code: status,
		Msg:  stdErr.Message,
		Data: ErrorBody{
			ErrorCode: string(stdErr.Code),
			Details:   stdErr.Details,
			Retryable: stdErr.Retryable,
		},
	})
	_ = c.Error(err)
}

func statusFor(err *errors.StandardError) int {
	switch err.Code {
	case errors.ErrCodeInvalidCriteria:
		return http.StatusBadRequest
	case errors.ErrCodeCareerNotFound, errors.ErrCodeIndexNotFound:
		return http.StatusNotFound
	}
	if err.Retryable {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
