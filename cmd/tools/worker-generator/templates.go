// cmd/tools/worker-generator/templates.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"
	"time"
	"unicode"

	"career-workers/pkg/registry"
)

const defaultTimeout = 10 * time.Second

type field struct {
	Name     string
	Type     string
	JSON     string
	Comment  string
	Required bool
}

type workerData struct {
	ID          string
	Dir         string
	DisplayName string
	Description string
	PackageName string
	TaskType    string
	Timeout     string
	ErrorCodes  []string
	Inputs      []field
	Outputs     []field
}

func newWorkerData(a *registry.Activity) workerData {
	return workerData{
		ID:          a.ID,
		Dir:         categoryDir(a.Category) + "/" + a.ID,
		DisplayName: a.DisplayName,
		Description: a.Description,
		PackageName: packageName(a.ID),
		TaskType:    a.TaskType,
		Timeout:     durationExpr(a.Timeout),
		ErrorCodes:  a.ErrorCodes,
		Inputs:      inputFields(a.InputSchema),
		Outputs:     outputFields(a.OutputVariables),
	}
}

// render returns the gofmt'ed scaffold files keyed by file name.
func render(data workerData) (map[string][]byte, error) {
	files := make(map[string][]byte, len(scaffold))
	for name, src := range scaffold {
		tmpl, err := template.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute %s: %w", name, err)
		}
		out, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", name, err)
		}
		files[name] = out
	}
	return files, nil
}

func packageName(id string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, id)
}

// exportedName turns camelCase, kebab-case or snake_case into a Go identifier.
func exportedName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "F" + name
	}
	return name
}

func durationExpr(raw string) string {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		d = defaultTimeout
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	}
	return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
}

func goType(prop map[string]interface{}) string {
	switch prop["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "array":
		if items, ok := prop["items"].(map[string]interface{}); ok && items["type"] == "string" {
			return "[]string"
		}
		return "[]interface{}"
	case "object":
		return "map[string]interface{}"
	default:
		return "interface{}"
	}
}

func inputFields(schema map[string]interface{}) []field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if req, ok := schema["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]field, 0, len(names))
	for _, name := range names {
		prop, _ := props[name].(map[string]interface{})
		desc, _ := prop["description"].(string)
		fields = append(fields, field{
			Name:     exportedName(name),
			Type:     goType(prop),
			JSON:     name,
			Comment:  desc,
			Required: required[name],
		})
	}
	return fields
}

func outputFields(vars []string) []field {
	fields := make([]field, 0, len(vars))
	for _, v := range vars {
		fields = append(fields, field{Name: exportedName(v), Type: "interface{}", JSON: v})
	}
	return fields
}

var scaffold = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": handlerTestTemplate,
}

const configTemplate = `// internal/workers/{{ .Dir }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ .Timeout }},
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Dir }}/models.go
package {{ .PackageName }}

type Input struct {
{{- range .Inputs }}
	{{ if .Comment }}// {{ .Comment }}
	{{ end }}{{ .Name }} {{ .Type }} ` + "`" + `json:"{{ .JSON }}{{ if not .Required }},omitempty{{ end }}"` + "`" + `
{{- end }}
}

type Output struct {
{{- range .Outputs }}
	{{ .Name }} {{ .Type }} ` + "`" + `json:"{{ .JSON }}"` + "`" + `
{{- end }}
}
`

const handlerTemplate = `// internal/workers/{{ .Dir }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-workers/internal/common/camunda"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "{{ .TaskType }}"

// Handler serves {{ .DisplayName }}: {{ .Description }}
{{- if .ErrorCodes }}
// Error codes: {{ range $i, $c := .ErrorCodes }}{{ if $i }}, {{ end }}{{ $c }}{{ end }}.
{{- end }}
type Handler struct {
	config   *Config
	reporter *camunda.Reporter
	logger   logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		reporter: camunda.NewReporter(TaskType, obs, log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.reporter.Fail(client, job, errors.NewInvalidCriteriaError(fmt.Sprintf("parse input: %v", err)), started)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.reporter.Fail(client, job, err, started)
		return
	}

	h.reporter.Complete(client, job, output, started)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Output{}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const handlerTestTemplate = `// internal/workers/{{ .Dir }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"testing"

	"career-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(LoadConfig(), nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestHandler_Execute_Cancelled(t *testing.T) {
	h := NewHandler(LoadConfig(), nil, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Execute(ctx, &Input{})
	assert.ErrorIs(t, err, context.Canceled)
}
`
