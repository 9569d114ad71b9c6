// internal/export/csv.go
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"career-workers/internal/catalog"
	"career-workers/internal/models"
)

const ContentTypeCSV = "text/csv; charset=utf-8"

// WriteCSV writes a header row followed by one row per record. The catalog
// columns come first, then every extra column any record carries, sorted by
// name. Skills are written as the source spelled them.
func WriteCSV(w io.Writer, records []models.CareerRecord) error {
	extras := extraColumns(records)
	cw := csv.NewWriter(w)
	header := append(append([]string(nil), catalog.Columns...), extras...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r, extras)); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderCSV returns the CSV document for records.
func RenderCSV(records []models.CareerRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName builds a download name such as career_recommendations_20240131T150405Z.csv.
func FileName(prefix string, at time.Time) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "career_recommendations"
	}
	return fmt.Sprintf("%s_%s.csv", prefix, at.UTC().Format("20060102T150405Z"))
}

func extraColumns(records []models.CareerRecord) []string {
	seen := map[string]bool{}
	var cols []string
	for _, r := range records {
		for k := range r.Extra {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

func row(r models.CareerRecord, extras []string) []string {
	out := []string{
		r.Name,
		r.Stream,
		r.DisplaySkills(),
		r.Exams,
		r.SalaryRange,
		r.JobDemand,
		r.EducationLevel,
		r.WorkEnvironment,
		r.PersonalityTraits,
	}
	for _, k := range extras {
		out = append(out, r.Extra[k])
	}
	return out
}
