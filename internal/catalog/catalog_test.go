// internal/catalog/catalog_test.go
package catalog

import (
	"testing"

	"career-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.CareerRecord {
	return []models.CareerRecord{
		{Name: "Data Scientist", Stream: "Science", RequiredSkills: []string{"programming", "data analysis"}, Exams: "JEE, GATE"},
		{Name: "IAS Officer", Stream: "Arts", RequiredSkills: []string{"leadership"}, Exams: "UPSC Civil Services Exam"},
		{Name: "Doctor", Stream: "science", RequiredSkills: []string{"biology"}, Exams: "NEET"},
		{Name: "Data Scientist", Stream: "Commerce", RequiredSkills: []string{"statistics"}},
	}
}

func TestNew_PreservesOrder(t *testing.T) {
	cat := New(sampleRecords())

	assert.Equal(t, 4, cat.Len())
	assert.Equal(t, []string{"Data Scientist", "IAS Officer", "Doctor", "Data Scientist"}, cat.Names())
}

func TestNew_IsolatedFromInput(t *testing.T) {
	records := sampleRecords()
	cat := New(records)

	records[0].Name = "Changed"
	records[0].RequiredSkills[0] = "changed"

	got := cat.Records()
	assert.Equal(t, "Data Scientist", got[0].Name)
	assert.Equal(t, "programming", got[0].RequiredSkills[0])
}

func TestRecords_ReturnsCopies(t *testing.T) {
	cat := New(sampleRecords())

	first := cat.Records()
	first[1].RequiredSkills[0] = "mutated"

	assert.Equal(t, "leadership", cat.Records()[1].RequiredSkills[0])
}

func TestLookup(t *testing.T) {
	cat := New(sampleRecords())

	tests := []struct {
		name       string
		query      string
		wantFound  bool
		wantStream string
	}{
		{name: "exact", query: "IAS Officer", wantFound: true, wantStream: "Arts"},
		{name: "case and space insensitive", query: "  ias officer ", wantFound: true, wantStream: "Arts"},
		{name: "first duplicate wins", query: "data scientist", wantFound: true, wantStream: "Science"},
		{name: "unknown", query: "Astronaut", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := cat.Lookup(tt.query)
			assert.Equal(t, tt.wantFound, ok)
			if tt.wantFound {
				assert.Equal(t, tt.wantStream, rec.Stream)
			}
		})
	}
}

func TestStreams_FirstAppearanceCaseInsensitive(t *testing.T) {
	cat := New(sampleRecords())
	assert.Equal(t, []string{"Science", "Arts", "Commerce"}, cat.Streams())
}

func TestEmptyAndNilCatalog(t *testing.T) {
	empty := New(nil)
	require.NotNil(t, empty)
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Records())
	assert.Empty(t, empty.Streams())

	var nilCat *Catalog
	assert.Equal(t, 0, nilCat.Len())
	assert.NotNil(t, nilCat.Records())
	_, ok := nilCat.Lookup("anything")
	assert.False(t, ok)
}
