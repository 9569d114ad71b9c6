// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	"career-workers/internal/common/errors"
	"career-workers/internal/models"

	"github.com/lib/pq"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// PostgresStore keeps the catalog in a table ordered by position.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(db *sql.DB, table string) (*PostgresStore, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid catalog table name %q", table)
	}
	return &PostgresStore{db: db, table: table}, nil
}

func (s *PostgresStore) Name() string {
	return "postgres:" + s.table
}

// EnsureSchema creates the catalog table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	name               TEXT PRIMARY KEY,
	position           INTEGER NOT NULL,
	stream             TEXT NOT NULL DEFAULT '',
	required_skills    TEXT[] NOT NULL,
	exams              TEXT NOT NULL DEFAULT '',
	salary_range       TEXT NOT NULL DEFAULT '',
	job_demand         TEXT NOT NULL DEFAULT '',
	education_level    TEXT NOT NULL DEFAULT '',
	work_environment   TEXT NOT NULL DEFAULT '',
	personality_traits TEXT NOT NULL DEFAULT '',
	skills_text        TEXT NOT NULL DEFAULT '',
	extra              JSONB NOT NULL DEFAULT '{}'
)`, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return errors.NewQueryExecutionFailedError("ensure_schema", err)
	}

	// Tables created before skills_text and extra existed.
	migrate := fmt.Sprintf(`ALTER TABLE %s
	ADD COLUMN IF NOT EXISTS skills_text TEXT NOT NULL DEFAULT '',
	ADD COLUMN IF NOT EXISTS extra JSONB NOT NULL DEFAULT '{}'`, s.table)
	if _, err := s.db.ExecContext(ctx, migrate); err != nil {
		return errors.NewQueryExecutionFailedError("ensure_schema", err)
	}
	return nil
}

// Load reads every row in position order. Rows whose skills array holds no
// usable token are rejected like malformed spreadsheet rows.
func (s *PostgresStore) Load(ctx context.Context) (Batch, error) {
	query := fmt.Sprintf(`SELECT name, stream, required_skills, exams, salary_range, job_demand,
	education_level, work_environment, personality_traits, skills_text, extra
FROM %s ORDER BY position, name`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Batch{}, errors.NewQueryTimeoutError("load_catalog")
		}
		return Batch{}, errors.NewQueryExecutionFailedError("load_catalog", err)
	}
	defer rows.Close()

	var batch Batch
	rowNum := 0
	for rows.Next() {
		rowNum++
		var (
			rec    models.CareerRecord
			skills []string
			extra  []byte
		)
		if err := rows.Scan(
			&rec.Name,
			&rec.Stream,
			pq.Array(&skills),
			&rec.Exams,
			&rec.SalaryRange,
			&rec.JobDemand,
			&rec.EducationLevel,
			&rec.WorkEnvironment,
			&rec.PersonalityTraits,
			&rec.SkillsText,
			&extra,
		); err != nil {
			return Batch{}, errors.NewQueryExecutionFailedError("load_catalog", err)
		}
		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &rec.Extra); err != nil {
				return Batch{}, errors.NewQueryExecutionFailedError("load_catalog", fmt.Errorf("decode extra of %q: %w", rec.Name, err))
			}
			if len(rec.Extra) == 0 {
				rec.Extra = nil
			}
		}

		rec.RequiredSkills = models.NormalizeSkills(skills)
		if len(rec.RequiredSkills) == 0 {
			batch.Rejected = append(batch.Rejected,
				errors.NewMalformedRecordError(rowNum, "required skills yield no tokens").WithMetadata("career", rec.Name))
			continue
		}
		batch.Records = append(batch.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return Batch{}, errors.NewQueryExecutionFailedError("load_catalog", err)
	}
	return batch, nil
}

// Upsert writes records in one transaction, keyed by name. Position follows
// the order of records.
func (s *PostgresStore) Upsert(ctx context.Context, records []models.CareerRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.NewDatabaseConnectionFailedError(err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s
	(name, position, stream, required_skills, exams, salary_range, job_demand,
	 education_level, work_environment, personality_traits, skills_text, extra)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (name) DO UPDATE SET
	position = EXCLUDED.position,
	stream = EXCLUDED.stream,
	required_skills = EXCLUDED.required_skills,
	exams = EXCLUDED.exams,
	salary_range = EXCLUDED.salary_range,
	job_demand = EXCLUDED.job_demand,
	education_level = EXCLUDED.education_level,
	work_environment = EXCLUDED.work_environment,
	personality_traits = EXCLUDED.personality_traits,
	skills_text = EXCLUDED.skills_text,
	extra = EXCLUDED.extra`, s.table))
	if err != nil {
		return 0, errors.NewQueryExecutionFailedError("upsert_catalog", err)
	}
	defer stmt.Close()

	for i, r := range records {
		extra, err := extraJSON(r.Extra)
		if err != nil {
			return 0, errors.NewQueryExecutionFailedError("upsert_catalog", err).WithMetadata("career", r.Name)
		}
		if _, err := stmt.ExecContext(ctx,
			r.Name, i, r.Stream, pq.Array(r.RequiredSkills), r.Exams,
			r.SalaryRange, r.JobDemand, r.EducationLevel, r.WorkEnvironment, r.PersonalityTraits,
			r.SkillsText, extra,
		); err != nil {
			return 0, errors.NewQueryExecutionFailedError("upsert_catalog", err).WithMetadata("career", r.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewQueryExecutionFailedError("upsert_catalog", err)
	}
	return len(records), nil
}

func extraJSON(extra map[string]string) (string, error) {
	if len(extra) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(extra)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
