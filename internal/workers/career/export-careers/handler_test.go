// internal/workers/career/export-careers/handler_test.go
package exportcareers

import (
	"context"
	"strings"
	"testing"
	"time"

	"career-workers/internal/catalog"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/matcher"
	"career-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const header = "Career,Stream,Required Skills,Exams,Salary Range (INR/year),Job Demand,Education Level,Work Environment,Personality Traits"

func createTestHandler(t *testing.T) *Handler {
	cat := catalog.New([]models.CareerRecord{
		{Name: "Doctor", Stream: "Science", RequiredSkills: []string{"biology", "communication"}, Exams: "NEET", SalaryRange: "10-50 LPA", JobDemand: "High"},
		{Name: "Lawyer", Stream: "Arts", RequiredSkills: []string{"research", "communication"}, Exams: "CLAT, AILET"},
		{Name: "Journalist", Stream: "Arts", RequiredSkills: []string{"writing", "communication"}},
	})
	h := NewHandler(LoadConfig(), catalog.Static{Catalog: cat}, matcher.New(), nil, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return h
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ByCriteria(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Criteria: models.QueryCriteria{Stream: "Arts", Skills: []string{"Communication"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "career_recommendations_20240501T093000Z.csv", output.FileName)
	assert.Equal(t, "text/csv; charset=utf-8", output.ContentType)
	assert.Equal(t, 2, output.RowCount)

	lines := strings.Split(strings.TrimSpace(output.CSV), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, header, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Lawyer,Arts,"))
	assert.True(t, strings.HasPrefix(lines[2], "Journalist,Arts,"))
}

func TestHandler_Execute_ByNames(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{CareerNames: []string{"journalist", "Doctor"}})
	require.NoError(t, err)

	assert.Equal(t, 2, output.RowCount)
	assert.Equal(t, header+"\n"+
		"Journalist,Arts,\"writing, communication\",,,,,,\n"+
		"Doctor,Science,\"biology, communication\",NEET,10-50 LPA,High,,,\n", output.CSV)
}

func TestHandler_Execute_NoMatchesStillHasHeader(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{Criteria: models.QueryCriteria{Stream: "Commerce"}})
	require.NoError(t, err)
	assert.Zero(t, output.RowCount)
	assert.Equal(t, header+"\n", output.CSV)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		wantCode errors.ErrorCode
	}{
		{name: "unknown career", input: &Input{CareerNames: []string{"Doctor", "Astronaut"}}, wantCode: errors.ErrCodeCareerNotFound},
		{name: "unknown mode", input: &Input{Criteria: models.QueryCriteria{MatchMode: "most"}}, wantCode: errors.ErrCodeInvalidCriteria},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)
			_, err := handler.Execute(context.Background(), tt.input)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}
