// cmd/tools/worker-generator/main_test.go
package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
	"time"

	"career-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ProducesValidGo(t *testing.T) {
	reg := registry.Careers(time.Now())

	for _, act := range reg.Activities {
		act := act
		t.Run(act.ID, func(t *testing.T) {
			files, err := render(newWorkerData(&act))
			require.NoError(t, err)
			require.Len(t, files, 4)

			for name, src := range files {
				_, err := parser.ParseFile(token.NewFileSet(), name, src, parser.AllErrors)
				assert.NoError(t, err, name)
			}
		})
	}
}

func TestRender_SkillGapModels(t *testing.T) {
	act, ok := registry.Careers(time.Now()).Find("compute-skill-gap")
	require.True(t, ok)

	files, err := render(newWorkerData(act))
	require.NoError(t, err)

	f, err := parser.ParseFile(token.NewFileSet(), "models.go", files["models.go"], 0)
	require.NoError(t, err)
	assert.Equal(t, "computeskillgap", f.Name.Name)

	fields := structFields(f, "Input")
	assert.Equal(t, []string{"TargetCareer", "UserSkills"}, fields)
	assert.Contains(t, string(files["models.go"]), `json:"targetCareer"`)
	assert.Contains(t, string(files["models.go"]), `json:"userSkills,omitempty"`)

	assert.Equal(t, []string{"Career", "MissingSkills", "MatchedSkills", "IsQualified"}, structFields(f, "Output"))
	assert.Contains(t, string(files["config.go"]), "5 * time.Second")
	assert.Contains(t, string(files["handler.go"]), `const TaskType = "compute-skill-gap"`)
	assert.Contains(t, string(files["handler.go"]), "// internal/workers/career/compute-skill-gap/handler.go")
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "camel", got: exportedName("targetCareer"), want: "TargetCareer"},
		{name: "kebab", got: exportedName("max-page-size"), want: "MaxPageSize"},
		{name: "snake", got: exportedName("request_id"), want: "RequestId"},
		{name: "leading digit", got: exportedName("2fa"), want: "F2fa"},
		{name: "package", got: packageName("search-career-index"), want: "searchcareerindex"},
		{name: "seconds", got: durationExpr("30s"), want: "30 * time.Second"},
		{name: "millis", got: durationExpr("1500ms"), want: "1500 * time.Millisecond"},
		{name: "bad timeout", got: durationExpr("soon"), want: "10 * time.Second"},
		{name: "category", got: categoryDir("data-access"), want: "data-access"},
		{name: "empty category", got: categoryDir(""), want: "career"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func structFields(f *ast.File, name string) []string {
	var out []string
	ast.Inspect(f, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok || ts.Name.Name != name {
			return true
		}
		for _, fld := range ts.Type.(*ast.StructType).Fields.List {
			for _, id := range fld.Names {
				out = append(out, id.Name)
			}
		}
		return false
	})
	return out
}
