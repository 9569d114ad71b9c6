// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"
	"time"

	csg "career-workers/internal/workers/career/compute-skill-gap"
	exc "career-workers/internal/workers/career/export-careers"
	fc "career-workers/internal/workers/career/filter-careers"
	pcc "career-workers/internal/workers/career/parse-career-criteria"
	sci "career-workers/internal/workers/data-access/search-career-index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestCareers_MatchesRegisteredWorkers(t *testing.T) {
	reg := Careers(fixedNow)
	require.NoError(t, reg.Validate())

	var taskTypes []string
	for _, a := range reg.Activities {
		taskTypes = append(taskTypes, a.TaskType)
	}
	assert.ElementsMatch(t, []string{pcc.TaskType, fc.TaskType, csg.TaskType, exc.TaskType, sci.TaskType}, taskTypes)
	assert.Equal(t, "2024-05-01T12:00:00Z", reg.LastUpdated)
}

func TestActivity_ValidateInput(t *testing.T) {
	reg := Careers(fixedNow)

	gap, ok := reg.Find("compute-skill-gap")
	require.True(t, ok)

	result, err := gap.ValidateInput(map[string]interface{}{"targetCareer": "Doctor", "userSkills": "biology"})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = gap.ValidateInput(map[string]interface{}{"userSkills": []interface{}{"biology"}})
	require.NoError(t, err)
	assert.False(t, result.Valid)

	filter, ok := reg.Find("filter-careers")
	require.True(t, ok)
	result, err = filter.ValidateInput(map[string]interface{}{"anything": 1})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestRegistry_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "task-registry.json")

	require.NoError(t, Save(Careers(fixedNow), path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())
	assert.Len(t, loaded.Activities, 5)

	search, ok := loaded.Find("search-career-index")
	require.True(t, ok)
	assert.Equal(t, "object", search.InputSchema["type"])
}

func TestRegistry_AddAndUpdate(t *testing.T) {
	reg := &ActivityRegistry{Version: "1.0.0"}

	require.NoError(t, reg.Add(Activity{ID: "rank-careers", DisplayName: "Rank Careers", Category: "career", TaskType: "rank-careers"}, fixedNow))
	assert.Error(t, reg.Add(Activity{ID: "rank-careers"}, fixedNow))

	tests := []struct {
		name    string
		field   string
		value   string
		wantErr bool
	}{
		{name: "status", field: "status", value: StatusInProgress},
		{name: "bad status", field: "status", value: "done", wantErr: true},
		{name: "timeout", field: "timeout", value: "15s"},
		{name: "bad timeout", field: "timeout", value: "soon", wantErr: true},
		{name: "retries", field: "retries", value: "3"},
		{name: "negative retries", field: "retries", value: "-1", wantErr: true},
		{name: "unknown field", field: "owner", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Update("rank-careers", tt.field, tt.value, fixedNow)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	a, _ := reg.Find("rank-careers")
	assert.Equal(t, StatusInProgress, a.ImplementationStatus)
	assert.Equal(t, "15s", a.Timeout)
	assert.Equal(t, 3, a.Retries)

	assert.Error(t, reg.Update("missing", "status", StatusPlanned, fixedNow))
}

func TestRegistry_Validate_ReportsProblems(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{
		{ID: "a", DisplayName: "A", Category: "career", TaskType: "a", ErrorCodes: []string{"NOPE"}},
		{ID: "a", DisplayName: "A", Category: "career", TaskType: "a"},
		{ID: "b", Category: "career", TaskType: "b", Timeout: "later"},
		{ID: "c", DisplayName: "C", Category: "career", TaskType: "c", InputSchema: map[string]interface{}{"type": 12}},
	}}

	err := reg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "unknown error code NOPE")
	assert.Contains(t, msg, "duplicate activity ID: a")
	assert.Contains(t, msg, "b: missing displayName")
	assert.Contains(t, msg, `b: invalid timeout "later"`)
	assert.Contains(t, msg, "c: input schema")

	assert.Error(t, (&ActivityRegistry{}).Validate())
}
