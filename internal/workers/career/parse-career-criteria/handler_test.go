// internal/workers/career/parse-career-criteria/handler_test.go
package parsecareercriteria

import (
	"context"
	"encoding/json"
	"testing"

	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/criteria"
	"career-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), criteria.NewParser(models.MatchAll, 20, 100), nil, &testLogger{t: t})
}

func inputFromJSON(t *testing.T, raw string) Input {
	t.Helper()
	var input Input
	require.NoError(t, json.Unmarshal([]byte(raw), &input))
	return input
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "ui selections with emoji labels",
			raw:  `{"stream":"Science","skills":["💻 Programming","📊 Data Analysis"],"freeText":""}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "Science", output.Criteria.Stream)
				assert.Equal(t, []string{"programming", "data analysis"}, output.Criteria.Skills)
				assert.Equal(t, models.MatchAll, output.Criteria.MatchMode)
				assert.True(t, output.CriteriaApplied)
			},
		},
		{
			name: "not sure stream and no skills",
			raw:  `{"stream":"Not Sure","skills":[]}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.False(t, output.CriteriaApplied)
				assert.Empty(t, output.Criteria.Skills)
				assert.Equal(t, models.Pagination{Page: 1, Size: 20}, output.Pagination)
			},
		},
		{
			name: "comma separated skills with any mode and paging",
			raw:  `{"skills":"communication, leadership","skillMatchMode":"any","pagination":{"page":2,"size":5}}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, []string{"communication", "leadership"}, output.Criteria.Skills)
				assert.Equal(t, models.MatchAny, output.Criteria.MatchMode)
				assert.Equal(t, models.Pagination{Page: 2, Size: 5}, output.Pagination)
			},
		},
		{
			name: "other process variables are ignored",
			raw:  `{"freeText":"engineer","applicantId":"abc-123","traitKeyword":"creative"}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "engineer", output.Criteria.FreeText)
				assert.Equal(t, "creative", output.Criteria.TraitKeyword)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)
			output, err := handler.Execute(context.Background(), inputFromJSON(t, tt.raw))
			require.NoError(t, err)
			require.NotNil(t, output)
			tt.validateOutput(t, output)
		})
	}
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_InvalidCriteria(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "skills is a number", raw: `{"skills":7}`},
		{name: "unknown match mode", raw: `{"skillMatchMode":"most"}`},
		{name: "page zero", raw: `{"pagination":{"page":0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)
			output, err := handler.Execute(context.Background(), inputFromJSON(t, tt.raw))
			assert.Nil(t, output)
			require.Error(t, err)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeInvalidCriteria, stdErr.Code)
			assert.Zero(t, errors.Decide(err, 3).Retries)
		})
	}
}

func TestHandler_Execute_OutputRoundTripsAsVariables(t *testing.T) {
	handler := createTestHandler(t)
	output, err := handler.Execute(context.Background(), inputFromJSON(t, `{"stream":"Arts","skills":"Research"}`))
	require.NoError(t, err)

	raw, err := json.Marshal(output)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"criteria": {"stream": "Arts", "skills": ["research"], "skillMatchMode": "all"},
		"pagination": {"page": 1, "size": 20},
		"criteriaApplied": true
	}`, string(raw))
}
