package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"fileinsight/internal/core/domain"
)

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *FileRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across worker/sweep startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS files (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	filepath TEXT NOT NULL,
	mimetype TEXT NOT NULL,
	size BIGINT NOT NULL DEFAULT 0,
	user_id TEXT NOT NULL,
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	summary TEXT,
	ai_processed BOOLEAN NOT NULL DEFAULT FALSE,
	enrich_status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_ai_processed ON files(ai_processed) WHERE ai_processed = FALSE;
CREATE INDEX IF NOT EXISTS idx_files_user_id ON files(user_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *FileRepository) Create(ctx context.Context, rec *domain.FileRecord) error {
	tagsJSON, err := json.Marshal(tagsOrEmpty(rec.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO files (
	id, filename, filepath, mimetype, size, user_id, tags, summary, ai_processed, enrich_status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		rec.ID, rec.Filename, rec.Path, rec.ContentType, rec.Size, rec.UserID, tagsJSON,
		rec.Summary, rec.Processed, string(rec.Status), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.FileRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, filepath, mimetype, size, user_id, tags, summary, ai_processed, enrich_status, created_at, updated_at
FROM files
WHERE id = $1
`, id)

	rec, err := scanFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrFileNotFound, "get file", err)
		}
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return rec, nil
}

// FindUnprocessed returns the oldest files still waiting for enrichment.
func (r *FileRepository) FindUnprocessed(ctx context.Context, limit int) ([]domain.FileRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, filename, filepath, mimetype, size, user_id, tags, summary, ai_processed, enrich_status, created_at, updated_at
FROM files
WHERE ai_processed = FALSE
ORDER BY created_at ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed files: %w", err)
	}
	defer rows.Close()

	var records []domain.FileRecord
	for rows.Next() {
		rec, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unprocessed files: %w", err)
	}
	return records, nil
}

// UpdateEnrichment persists the result of one enrichment attempt in a single
// statement, so a redelivered job converges on the same row state.
func (r *FileRepository) UpdateEnrichment(ctx context.Context, fileID string, tags []string, summary string, status domain.EnrichmentStatus) error {
	tagsJSON, err := json.Marshal(tagsOrEmpty(tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE files
SET tags = $2, summary = $3, ai_processed = TRUE, enrich_status = $4, updated_at = NOW()
WHERE id = $1
`, fileID, tagsJSON, summary, string(status))
	if err != nil {
		return fmt.Errorf("update enrichment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("enrichment rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrFileNotFound, "update enrichment", fmt.Errorf("file %s not found", fileID))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*domain.FileRecord, error) {
	var rec domain.FileRecord
	var tagsRaw []byte
	var summary sql.NullString
	var status string

	err := row.Scan(
		&rec.ID, &rec.Filename, &rec.Path, &rec.ContentType, &rec.Size, &rec.UserID,
		&tagsRaw, &summary, &rec.Processed, &status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &rec.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	rec.Summary = summary.String
	rec.Status = domain.EnrichmentStatus(status)
	return &rec, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
