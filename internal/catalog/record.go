// internal/catalog/record.go
package catalog

import (
	"fmt"
	"strings"

	"career-workers/internal/common/errors"
	"career-workers/internal/models"
)

// Column names written by the exporter and expected in spreadsheets.
const (
	ColCareer            = "Career"
	ColStream            = "Stream"
	ColRequiredSkills    = "Required Skills"
	ColExams             = "Exams"
	ColSalaryRange       = "Salary Range (INR/year)"
	ColJobDemand         = "Job Demand"
	ColEducationLevel    = "Education Level"
	ColWorkEnvironment   = "Work Environment"
	ColPersonalityTraits = "Personality Traits"
)

// Columns is the canonical column order.
var Columns = []string{
	ColCareer,
	ColStream,
	ColRequiredSkills,
	ColExams,
	ColSalaryRange,
	ColJobDemand,
	ColEducationLevel,
	ColWorkEnvironment,
	ColPersonalityTraits,
}

type field int

const (
	fieldExtra field = iota
	fieldName
	fieldStream
	fieldSkills
	fieldExams
	fieldSalary
	fieldDemand
	fieldEducation
	fieldEnvironment
	fieldTraits
)

// headerAliases maps lower-cased header text to a record field.
var headerAliases = map[string]field{
	"career":                  fieldName,
	"career name":             fieldName,
	"name":                    fieldName,
	"stream":                  fieldStream,
	"required skills":         fieldSkills,
	"skills":                  fieldSkills,
	"exams":                   fieldExams,
	"entrance exams":          fieldExams,
	"salary range (inr/year)": fieldSalary,
	"salary range":            fieldSalary,
	"salary":                  fieldSalary,
	"job demand":              fieldDemand,
	"education level":         fieldEducation,
	"education":               fieldEducation,
	"work environment":        fieldEnvironment,
	"personality traits":      fieldTraits,
}

// Batch is the result of reading a source: accepted records in order plus the
// rows that were rejected.
type Batch struct {
	Records  []models.CareerRecord
	Rejected []*errors.StandardError
}

// ParseRows turns a header row and data rows into records. Rows whose name is
// blank or whose skills produce no token are rejected with MALFORMED_RECORD.
// Fully blank rows are skipped. A header without career, stream or skills
// columns is an error.
func ParseRows(header []string, rows [][]string) (Batch, error) {
	fields := make([]field, len(header))
	present := map[field]bool{}
	for i, h := range header {
		f := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		fields[i] = f
		present[f] = true
	}

	var missing []string
	for f, col := range map[field]string{fieldName: ColCareer, fieldStream: ColStream, fieldSkills: ColRequiredSkills} {
		if !present[f] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Batch{}, fmt.Errorf("header missing required columns: %s", strings.Join(sortedColumns(missing), ", "))
	}

	batch := Batch{Records: make([]models.CareerRecord, 0, len(rows))}
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(header, fields, row, i+2) // 1-based, header is row 1
		if err != nil {
			batch.Rejected = append(batch.Rejected, err)
			continue
		}
		batch.Records = append(batch.Records, rec)
	}
	return batch, nil
}

func parseRow(header []string, fields []field, row []string, rowNum int) (models.CareerRecord, *errors.StandardError) {
	var rec models.CareerRecord
	var skillsCell string

	for i, f := range fields {
		if i >= len(row) {
			break
		}
		val := strings.TrimSpace(row[i])
		switch f {
		case fieldName:
			rec.Name = val
		case fieldStream:
			rec.Stream = val
		case fieldSkills:
			skillsCell = val
		case fieldExams:
			rec.Exams = val
		case fieldSalary:
			rec.SalaryRange = val
		case fieldDemand:
			rec.JobDemand = val
		case fieldEducation:
			rec.EducationLevel = val
		case fieldEnvironment:
			rec.WorkEnvironment = val
		case fieldTraits:
			rec.PersonalityTraits = val
		default:
			if val == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[strings.TrimSpace(header[i])] = val
		}
	}

	if rec.Name == "" {
		return rec, errors.NewMalformedRecordError(rowNum, "career name is empty")
	}
	if err := validateRecord(&rec, skillsCell); err != nil {
		return rec, errors.NewMalformedRecordError(rowNum, err.Error()).WithMetadata("career", rec.Name)
	}
	return rec, nil
}

// validateRecord parses the skills cell into rec and checks record invariants.
func validateRecord(rec *models.CareerRecord, skillsCell string) error {
	rec.RequiredSkills = models.SplitSkills(skillsCell)
	rec.SkillsText = skillsCell
	if len(rec.RequiredSkills) == 0 {
		return fmt.Errorf("required skills %q yield no tokens", skillsCell)
	}
	return nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// sortedColumns orders column names as they appear in Columns.
func sortedColumns(cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range Columns {
		for _, m := range cols {
			if m == c {
				out = append(out, c)
			}
		}
	}
	return out
}
