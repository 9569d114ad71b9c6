// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"career-workers/internal/common/errors"
	"career-workers/internal/common/validation"

	"github.com/ecodeclub/ekit/slice"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, creating parent directories.
func Save(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func (r *ActivityRegistry) Find(id string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Add appends a new activity. IDs are unique.
func (r *ActivityRegistry) Add(a Activity, now time.Time) error {
	if _, exists := r.Find(a.ID); exists {
		return fmt.Errorf("activity with ID %s already exists", a.ID)
	}
	r.Activities = append(r.Activities, a)
	r.LastUpdated = now.UTC().Format(time.RFC3339)
	return nil
}

// Update sets one scalar field of an activity from its string form.
func (r *ActivityRegistry) Update(id, field, value string, now time.Time) error {
	a, ok := r.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		if !slice.Contains(statuses, value) {
			return fmt.Errorf("invalid status %q, want one of %s", value, strings.Join(statuses, ", "))
		}
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "taskType":
		a.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("invalid retries value %q", value)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	r.LastUpdated = now.UTC().Format(time.RFC3339)
	return nil
}

// Validate reports every problem found, one per line of the returned error.
// Input schemas must compile and error codes must be mapped to BPMN codes.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	var problems []string
	ids := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.ID == "" {
			problems = append(problems, "activity missing required field: id")
			continue
		}
		if ids[a.ID] {
			problems = append(problems, fmt.Sprintf("duplicate activity ID: %s", a.ID))
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			problems = append(problems, fmt.Sprintf("%s: missing displayName", a.ID))
		}
		if a.TaskType == "" {
			problems = append(problems, fmt.Sprintf("%s: missing taskType", a.ID))
		}
		if a.Category == "" {
			problems = append(problems, fmt.Sprintf("%s: missing category", a.ID))
		}
		if a.ImplementationStatus != "" && !slice.Contains(statuses, a.ImplementationStatus) {
			problems = append(problems, fmt.Sprintf("%s: unknown status %q", a.ID, a.ImplementationStatus))
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				problems = append(problems, fmt.Sprintf("%s: invalid timeout %q", a.ID, a.Timeout))
			}
		}
		if len(a.InputSchema) > 0 {
			if _, err := validation.CompileGo(a.InputSchema); err != nil {
				problems = append(problems, fmt.Sprintf("%s: input schema: %v", a.ID, err))
			}
		}
		for _, code := range a.ErrorCodes {
			if _, ok := errors.BPMNErrorMapping[errors.ErrorCode(code)]; !ok {
				problems = append(problems, fmt.Sprintf("%s: unknown error code %s", a.ID, code))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("registry has %d problem(s):\n  %s", len(problems), strings.Join(problems, "\n  "))
	}
	return nil
}

// ValidateInput checks job variables against the activity's input schema.
// Activities without a schema accept anything.
func (a *Activity) ValidateInput(variables map[string]interface{}) (*validation.ValidationResult, error) {
	if len(a.InputSchema) == 0 {
		return &validation.ValidationResult{Valid: true}, nil
	}
	schema, err := validation.CompileGo(a.InputSchema)
	if err != nil {
		return nil, err
	}
	return schema.Validate(variables)
}
