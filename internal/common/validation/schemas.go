// internal/common/validation/schemas.go
package validation

const criteriaProperties = `
	"stream":         {"type": ["string", "null"], "maxLength": 64},
	"skills":         {"oneOf": [
		{"type": "string", "maxLength": 1024},
		{"type": "array", "maxItems": 50, "items": {"type": "string", "maxLength": 100}},
		{"type": "null"}
	]},
	"freeText":       {"type": ["string", "null"], "maxLength": 200},
	"examKeyword":    {"type": ["string", "null"], "maxLength": 100},
	"skillKeyword":   {"type": ["string", "null"], "maxLength": 100},
	"traitKeyword":   {"type": ["string", "null"], "maxLength": 100},
	"skillMatchMode": {"type": ["string", "null"]},
	"pagination": {
		"type": ["object", "null"],
		"properties": {
			"page": {"type": ["integer", "string", "null"]},
			"size": {"type": ["integer", "string", "null"]}
		}
	}`

// CriteriaSchema describes raw career query variables.
var CriteriaSchema = MustCompile(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {` + criteriaProperties + `
	}
}`)

// SkillGapSchema describes a skill gap request.
var SkillGapSchema = MustCompile(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["targetCareer"],
	"properties": {
		"targetCareer": {"type": "string", "minLength": 1, "maxLength": 200},
		"userSkills": {"oneOf": [
			{"type": "string"},
			{"type": "array", "items": {"type": "string"}},
			{"type": "null"}
		]}
	}
}`)

// SearchSchema describes a full-text career search request.
var SearchSchema = MustCompile(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["query"],
	"properties": {
		"query":  {"type": "string", "minLength": 1, "maxLength": 200},
		"stream": {"type": ["string", "null"]},
		"size":   {"type": "integer", "minimum": 1, "maximum": 100}
	}
}`)
