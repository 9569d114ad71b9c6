// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Constructors
// ==========================

func TestNewMalformedRecordError(t *testing.T) {
	err := NewMalformedRecordError(7, "career name is empty")

	assert.Equal(t, ErrCodeMalformedRecord, err.Code)
	assert.Equal(t, "row: 7, reason: career name is empty", err.Details)
	assert.Equal(t, 7, err.Metadata["row"])
	assert.False(t, err.Retryable)
	assert.Equal(t, "StandardError[MALFORMED_RECORD]: Malformed catalog record", err.Error())
}

func TestNewCatalogLoadFailedError_Unwraps(t *testing.T) {
	cause := fmt.Errorf("open careers.xlsx: no such file")
	err := NewCatalogLoadFailedError("file:careers.xlsx", cause)

	assert.True(t, err.Retryable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Details, "source: file:careers.xlsx")
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("filter: %w", NewCareerNotFoundError("Astronaut"))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeCareerNotFound, stdErr.Code)

	_, ok = AsStandardError(stderrors.New("plain"))
	assert.False(t, ok)
}

// ==========================
// BPMN Conversion
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewCareerNotFoundError("Astronaut").WithMetadata("career", "Astronaut")
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "CAREER_NOT_FOUND", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "CAREER_NOT_FOUND", vars["errorCode"])
	assert.Equal(t, "career: Astronaut", vars["errorDetails"])
	assert.Equal(t, "Astronaut", vars["career"])
	assert.Equal(t, "CAREER_NOT_FOUND", vars["originalErrorCode"])
}

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeCatalogLoadFailed, 3},
		{ErrCodeCacheUnavailable, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeQueryTimeout, 2},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeInvalidCriteria, 0},
		{ErrCodeCareerNotFound, 0},
		{ErrCodeMalformedRecord, 0},
		{ErrCodeOutputEncodingFailed, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeMalformedRecord))
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeCacheUnavailable))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeCareerNotFound))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidCriteria))
	assert.Equal(t, "WORKFLOW", GetErrorCategory(ErrCodeBrokerRejected))
	assert.Equal(t, "WORKFLOW", GetErrorCategory(ErrCodeOutputEncodingFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestNewOutputEncodingError(t *testing.T) {
	cause := stderrors.New("json: unsupported type: chan int")
	err := NewOutputEncodingError(cause)

	assert.Equal(t, ErrCodeOutputEncodingFailed, err.Code)
	assert.False(t, err.Retryable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "OUTPUT_ENCODING_FAILED", ConvertToBPMNError(err).Code)
}

// ==========================
// Job Error Decisions
// ==========================

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		remaining   int32
		wantCode    ErrorCode
		wantRetries int
	}{
		{name: "business error throws", err: NewInvalidCriteriaError("skills: Invalid type"), remaining: 3, wantCode: ErrCodeInvalidCriteria, wantRetries: 0},
		{name: "retryable error keeps retries", err: NewCatalogLoadFailedError("file:x", stderrors.New("eof")), remaining: 5, wantCode: ErrCodeCatalogLoadFailed, wantRetries: 3},
		{name: "retries capped by broker", err: NewSearchTimeoutError("careers"), remaining: 2, wantCode: ErrCodeSearchTimeout, wantRetries: 1},
		{name: "last attempt throws", err: NewSearchQueryFailedError("careers", stderrors.New("500")), remaining: 1, wantCode: ErrCodeSearchQueryFailed, wantRetries: 0},
		{name: "unencodable output throws", err: NewOutputEncodingError(stderrors.New("json: unsupported value: NaN")), remaining: 3, wantCode: ErrCodeOutputEncodingFailed, wantRetries: 0},
		{name: "plain error is internal", err: stderrors.New("boom"), remaining: 3, wantCode: ErrCodeInternal, wantRetries: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.err, tt.remaining)
			assert.Equal(t, tt.wantCode, d.Error.Code)
			assert.Equal(t, tt.wantRetries, d.Retries)
			assert.Equal(t, string(tt.wantCode), d.BPMN.Code)
		})
	}
}

func TestNormalize_KeepsCause(t *testing.T) {
	cause := stderrors.New("boom")
	stdErr := Normalize(cause)

	assert.Equal(t, "boom", stdErr.Details)
	assert.ErrorIs(t, stdErr, cause)
}
