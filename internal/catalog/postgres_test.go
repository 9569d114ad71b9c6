// internal/catalog/postgres_test.go
package catalog

import (
	"context"
	"database/sql"
	stderrors "errors"
	"regexp"
	"testing"

	"career-workers/internal/common/errors"
	"career-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogColumns = []string{
	"name", "stream", "required_skills", "exams", "salary_range", "job_demand",
	"education_level", "work_environment", "personality_traits", "skills_text", "extra",
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestNewPostgresStore_TableName(t *testing.T) {
	db, _ := setupMockDB(t)

	tests := []struct {
		table   string
		wantErr bool
	}{
		{table: "careers"},
		{table: "public.careers"},
		{table: "careers; DROP TABLE users", wantErr: true},
		{table: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			_, err := NewPostgresStore(db, tt.table)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostgresStore_Load(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewPostgresStore(db, "careers")
	require.NoError(t, err)

	rows := sqlmock.NewRows(catalogColumns).
		AddRow("Data Scientist", "Science", `{"Programming","data analysis"}`, "JEE, GATE", "8-25 LPA", "High", "B.Tech", "Remote", "Curious",
			"Programming, Data Analysis", []byte(`{"Top Colleges":"IIT Madras"}`)).
		AddRow("Broken", "Arts", `{" "}`, "", "", "", "", "", "", "", []byte(`{}`)).
		AddRow("IAS Officer", "Arts", `{"leadership","communication"}`, "UPSC", "", "", "", "", "", "", []byte(`{}`))

	mock.ExpectQuery(regexp.QuoteMeta("FROM careers ORDER BY position, name")).WillReturnRows(rows)

	batch, err := store.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, batch.Records, 2)
	assert.Equal(t, "Data Scientist", batch.Records[0].Name)
	assert.Equal(t, []string{"programming", "data analysis"}, batch.Records[0].RequiredSkills)
	assert.Equal(t, "Curious", batch.Records[0].PersonalityTraits)
	assert.Equal(t, "Programming, Data Analysis", batch.Records[0].SkillsText)
	assert.Equal(t, map[string]string{"Top Colleges": "IIT Madras"}, batch.Records[0].Extra)
	assert.Equal(t, "IAS Officer", batch.Records[1].Name)
	assert.Nil(t, batch.Records[1].Extra)

	require.Len(t, batch.Rejected, 1)
	assert.Equal(t, errors.ErrCodeMalformedRecord, batch.Rejected[0].Code)
	assert.Equal(t, "Broken", batch.Rejected[0].Metadata["career"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewPostgresStore(db, "careers")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT name").WillReturnError(stderrors.New("connection reset"))

	_, err = store.Load(context.Background())
	require.Error(t, err)

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewPostgresStore(db, "careers")
	require.NoError(t, err)

	records := []models.CareerRecord{
		{Name: "Data Scientist", Stream: "Science", RequiredSkills: []string{"programming"}, Exams: "JEE"},
		{
			Name: "Lawyer", Stream: "Arts", RequiredSkills: []string{"research", "communication"}, Exams: "CLAT",
			SkillsText: "Research, Communication", Extra: map[string]string{"Top Colleges": "NLSIU"},
		},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO careers")
	prep.ExpectExec().
		WithArgs("Data Scientist", 0, "Science", pq.Array([]string{"programming"}), "JEE", "", "", "", "", "", "", "{}").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("Lawyer", 1, "Arts", pq.Array([]string{"research", "communication"}), "CLAT", "", "", "", "", "",
			"Research, Communication", `{"Top Colleges":"NLSIU"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := store.Upsert(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertRollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewPostgresStore(db, "careers")
	require.NoError(t, err)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO careers")
	prep.ExpectExec().WillReturnError(stderrors.New("constraint violation"))
	mock.ExpectRollback()

	_, err = store.Upsert(context.Background(), []models.CareerRecord{
		{Name: "Doctor", Stream: "Science", RequiredSkills: []string{"biology"}},
	})
	require.Error(t, err)

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, "Doctor", stdErr.Metadata["career"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	db, mock := setupMockDB(t)
	store, err := NewPostgresStore(db, "careers")
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS careers").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE careers")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
