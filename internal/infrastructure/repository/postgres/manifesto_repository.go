package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

type ManifestoRepository struct {
	db *sql.DB
}

func NewManifestoRepository(db *sql.DB) *ManifestoRepository {
	return &ManifestoRepository{db: db}
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

func (r *ManifestoRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS manifestos (
	party_id TEXT PRIMARY KEY,
	party_name TEXT NOT NULL,
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	page_count INTEGER NOT NULL DEFAULT 0,
	chunk_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_manifestos_status ON manifestos(status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the row for the party. Re-uploading a manifesto
// is a full replacement, so the conflict branch rewrites every mutable column.
func (r *ManifestoRepository) Upsert(ctx context.Context, rec *domain.ManifestoRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO manifestos (
	party_id, party_name, filename, storage_path, page_count, chunk_count, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (party_id) DO UPDATE SET
	party_name = EXCLUDED.party_name,
	filename = EXCLUDED.filename,
	storage_path = EXCLUDED.storage_path,
	page_count = EXCLUDED.page_count,
	chunk_count = EXCLUDED.chunk_count,
	status = EXCLUDED.status,
	error_message = EXCLUDED.error_message,
	updated_at = EXCLUDED.updated_at
`,
		rec.PartyID, rec.PartyName, rec.Filename, rec.StoragePath, rec.PageCount, rec.ChunkCount,
		string(rec.Status), rec.Error, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert manifesto: %w", err)
	}
	return nil
}

func (r *ManifestoRepository) GetByPartyID(ctx context.Context, partyID string) (*domain.ManifestoRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT party_id, party_name, filename, storage_path, page_count, chunk_count, status, error_message, created_at, updated_at
FROM manifestos
WHERE party_id = $1
`, partyID)

	var rec domain.ManifestoRecord
	var status string

	err := row.Scan(
		&rec.PartyID, &rec.PartyName, &rec.Filename, &rec.StoragePath, &rec.PageCount, &rec.ChunkCount,
		&status, &rec.Error, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrManifestoNotFound, "get manifesto", fmt.Errorf("party %q", partyID))
		}
		return nil, fmt.Errorf("scan manifesto: %w", err)
	}

	rec.Status = domain.ManifestoStatus(status)
	return &rec, nil
}

func (r *ManifestoRepository) UpdateStatus(ctx context.Context, partyID string, status domain.ManifestoStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE manifestos
SET status = $2, error_message = $3, updated_at = $4
WHERE party_id = $1
`, partyID, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update manifesto status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrManifestoNotFound, "update manifesto status", fmt.Errorf("party %q", partyID))
	}
	return nil
}

func (r *ManifestoRepository) List(ctx context.Context) ([]domain.ManifestoRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT party_id, party_name, filename, storage_path, page_count, chunk_count, status, error_message, created_at, updated_at
FROM manifestos
ORDER BY party_id
`)
	if err != nil {
		return nil, fmt.Errorf("list manifestos: %w", err)
	}
	defer rows.Close()

	var out []domain.ManifestoRecord
	for rows.Next() {
		var rec domain.ManifestoRecord
		var status string
		if err := rows.Scan(
			&rec.PartyID, &rec.PartyName, &rec.Filename, &rec.StoragePath, &rec.PageCount, &rec.ChunkCount,
			&status, &rec.Error, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan manifesto row: %w", err)
		}
		rec.Status = domain.ManifestoStatus(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manifesto rows: %w", err)
	}
	return out, nil
}
