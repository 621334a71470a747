package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/swasthya-ai/swasthya/internal/domain/analysis"
)

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// EnsureSchema creates the analysis table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS health_analyses (
  seq           BIGSERIAL PRIMARY KEY,
  id            TEXT NOT NULL UNIQUE,
  user_id       TEXT NOT NULL,
  analysis_type TEXT NOT NULL,
  media_url     TEXT,
  result_json   JSONB NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_health_analyses_user ON health_analyses (user_id, created_at);
`
	_, err := db.ExecContext(ctx, q)
	return err
}

// Save appends one immutable record (single row INSERT, no upsert).
func (r *RecordRepository) Save(ctx context.Context, rec *domain.Record) error {
	if strings.TrimSpace(rec.UserID) == "" {
		return domain.ErrEmptyUserID
	}
	createdAt := rec.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	result := string(rec.Result)
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}

	const q = `
INSERT INTO health_analyses
  (id, user_id, analysis_type, media_url, result_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6);
`
	_, err := r.db.ExecContext(ctx, q, rec.ID, rec.UserID, rec.Type, rec.MediaURL, result, createdAt)
	return err
}

// List returns the user's history newest-first; unknown users get an
// empty slice.
func (r *RecordRepository) List(ctx context.Context, userID string) ([]*domain.Record, error) {
	out := []*domain.Record{}
	if strings.TrimSpace(userID) == "" {
		return out, nil
	}

	const q = `
SELECT id, user_id, analysis_type, media_url, result_json, created_at
FROM health_analyses
WHERE user_id=$1
ORDER BY created_at DESC, seq DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.Record
		var mediaURL sql.NullString
		var result string
		var created time.Time
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Type, &mediaURL, &result, &created); err != nil {
			return nil, err
		}
		rec.MediaURL = mediaURL.String
		rec.Result = json.RawMessage(result)
		rec.Timestamp = created.UTC()
		out = append(out, &rec)
	}
	return out, rows.Err()
}
