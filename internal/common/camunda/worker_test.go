// internal/common/camunda/worker_test.go
package camunda

import (
	"math"
	"testing"

	"career-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeVariables(t *testing.T) {
	type result struct {
		Career      string   `json:"career"`
		MissingList []string `json:"missingSkills"`
	}

	tests := []struct {
		name   string
		output interface{}
		want   string
	}{
		{name: "struct", output: &result{Career: "Doctor", MissingList: []string{"biology"}}, want: `{"career":"Doctor","missingSkills":["biology"]}`},
		{name: "map", output: map[string]interface{}{"rowCount": 2}, want: `{"rowCount":2}`},
		{name: "empty struct", output: struct{}{}, want: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeVariables(tt.output)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, got)
		})
	}
}

func TestEncodeVariables_Rejects(t *testing.T) {
	var nilResult *struct{ Career string }

	tests := []struct {
		name   string
		output interface{}
	}{
		{name: "channel", output: map[string]interface{}{"updates": make(chan int)}},
		{name: "function", output: func() {}},
		{name: "nan", output: map[string]float64{"score": math.NaN()}},
		{name: "array", output: []string{"Doctor"}},
		{name: "nil pointer", output: nilResult},
		{name: "scalar", output: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encodeVariables(tt.output)
			require.Error(t, err)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeOutputEncodingFailed, stdErr.Code)
			assert.False(t, stdErr.Retryable)
			assert.NotEqual(t, errors.ErrCodeExportFailed, stdErr.Code)
		})
	}
}
