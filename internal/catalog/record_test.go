// internal/catalog/record_test.go
package catalog

import (
	"testing"

	"career-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows_Success(t *testing.T) {
	header := []string{"Career", "Stream", "Required Skills", "Exams", "Salary Range (INR/year)", "Personality Traits", "Mentor"}
	rows := [][]string{
		{"Data Scientist", "Science", " Programming, Data Analysis ,Machine Learning", "JEE, GATE, CUET", "8-25 LPA", "Analytical", "Dr. Rao"},
		{"IAS Officer", " Arts ", "Leadership, Critical Thinking, Communication", "UPSC Civil Services Exam"},
	}

	batch, err := ParseRows(header, rows)
	require.NoError(t, err)
	require.Len(t, batch.Records, 2)
	assert.Empty(t, batch.Rejected)

	ds := batch.Records[0]
	assert.Equal(t, "Data Scientist", ds.Name)
	assert.Equal(t, []string{"programming", "data analysis", "machine learning"}, ds.RequiredSkills)
	assert.Equal(t, "8-25 LPA", ds.SalaryRange)
	assert.Equal(t, "Analytical", ds.PersonalityTraits)
	assert.Equal(t, map[string]string{"Mentor": "Dr. Rao"}, ds.Extra)

	ias := batch.Records[1]
	assert.Equal(t, "Arts", ias.Stream)
	assert.Empty(t, ias.SalaryRange)
	assert.Nil(t, ias.Extra)
}

func TestParseRows_HeaderAliases(t *testing.T) {
	batch, err := ParseRows(
		[]string{"career name", "STREAM", "skills", "entrance exams"},
		[][]string{{"Lawyer", "Arts", "Research", "CLAT"}},
	)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, "CLAT", batch.Records[0].Exams)
}

func TestParseRows_MissingColumns(t *testing.T) {
	_, err := ParseRows([]string{"Career", "Exams"}, nil)
	require.Error(t, err)
	assert.Equal(t, "header missing required columns: Stream, Required Skills", err.Error())
}

func TestParseRows_MalformedRecords(t *testing.T) {
	header := []string{"Career", "Stream", "Required Skills"}
	tests := []struct {
		name        string
		row         []string
		wantRow     int
		wantDetails string
	}{
		{
			name:        "skills with only separators",
			row:         []string{"Ghost", "Science", " , , "},
			wantRow:     2,
			wantDetails: `row: 2, reason: required skills ", ," yield no tokens`,
		},
		{
			name:        "missing skills cell",
			row:         []string{"Ghost", "Science"},
			wantRow:     2,
			wantDetails: `row: 2, reason: required skills "" yield no tokens`,
		},
		{
			name:        "blank name",
			row:         []string{"  ", "Science", "Research"},
			wantRow:     2,
			wantDetails: "row: 2, reason: career name is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := ParseRows(header, [][]string{tt.row})
			require.NoError(t, err)
			assert.Empty(t, batch.Records)
			require.Len(t, batch.Rejected, 1)

			rej := batch.Rejected[0]
			assert.Equal(t, errors.ErrCodeMalformedRecord, rej.Code)
			assert.Equal(t, tt.wantDetails, rej.Details)
			assert.Equal(t, tt.wantRow, rej.Metadata["row"])
			assert.False(t, rej.Retryable)
		})
	}
}

func TestParseRows_SkipsBlankRows(t *testing.T) {
	batch, err := ParseRows(
		[]string{"Career", "Stream", "Required Skills"},
		[][]string{{"", " ", ""}, {}, {"Doctor", "Science", "Biology"}},
	)
	require.NoError(t, err)
	assert.Len(t, batch.Records, 1)
	assert.Empty(t, batch.Rejected)
}
