// Package storage persists the review journal.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	// import db drivers
	_ "github.com/lib/pq"

	"github.com/sevigo/codewise/internal/core"
)

// DefaultHistoryLimit caps ListReviews when no limit is given.
const DefaultHistoryLimit = 20

// Store defines the journal operations.
type Store interface {
	core.Journal
	SaveReview(ctx context.Context, rec *core.ReviewRecord) error
	ListReviews(ctx context.Context, repoFullName string, limit int) ([]*core.ReviewRecord, error)
}

type postgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	return &postgresStore{db: db, logger: logger}
}

// reviewRow mirrors the reviews table.
type reviewRow struct {
	ID            int64         `db:"id"`
	RepoFullName  string        `db:"repo_full_name"`
	FilePath      string        `db:"file_path"`
	Language      string        `db:"language"`
	ArtifactPath  string        `db:"artifact_path"`
	PRNumber      sql.NullInt64 `db:"pr_number"`
	ReviewContent string        `db:"review_content"`
	CreatedAt     time.Time     `db:"created_at"`
}

func toRow(rec *core.ReviewRecord) reviewRow {
	row := reviewRow{
		ID:            rec.ID,
		RepoFullName:  rec.RepoFullName,
		FilePath:      rec.FilePath,
		Language:      rec.Language.Code(),
		ArtifactPath:  rec.ArtifactPath,
		ReviewContent: rec.ReviewContent,
		CreatedAt:     rec.CreatedAt,
	}
	if rec.PRNumber > 0 {
		row.PRNumber = sql.NullInt64{Int64: int64(rec.PRNumber), Valid: true}
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (r reviewRow) record() *core.ReviewRecord {
	lang, _ := core.ParseLanguage(r.Language)
	rec := &core.ReviewRecord{
		ID:            r.ID,
		RepoFullName:  r.RepoFullName,
		FilePath:      r.FilePath,
		Language:      lang,
		ArtifactPath:  r.ArtifactPath,
		ReviewContent: r.ReviewContent,
		CreatedAt:     r.CreatedAt,
	}
	if r.PRNumber.Valid {
		rec.PRNumber = int(r.PRNumber.Int64)
	}
	return rec
}

// SaveReview inserts a new review record and fills in its ID.
func (s *postgresStore) SaveReview(ctx context.Context, rec *core.ReviewRecord) error {
	row := toRow(rec)
	query := `INSERT INTO reviews (repo_full_name, file_path, language, artifact_path, pr_number, review_content, created_at)
		VALUES (:repo_full_name, :file_path, :language, :artifact_path, :pr_number, :review_content, :created_at)
		RETURNING id`

	stmt, err := s.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare review insert: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &rec.ID, row); err != nil {
		return fmt.Errorf("failed to save review for %s: %w", rec.FilePath, err)
	}
	rec.CreatedAt = row.CreatedAt
	s.logger.Debug("review journaled", "id", rec.ID, "path", rec.FilePath)
	return nil
}

// Record implements core.Journal.
func (s *postgresStore) Record(ctx context.Context, rec *core.ReviewRecord) error {
	return s.SaveReview(ctx, rec)
}

// ListReviews returns the latest reviews of a repository, newest first.
func (s *postgresStore) ListReviews(ctx context.Context, repoFullName string, limit int) ([]*core.ReviewRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	query := `
		SELECT id, repo_full_name, file_path, language, artifact_path, pr_number, review_content, created_at
		FROM reviews
		WHERE repo_full_name = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	var rows []reviewRow
	if err := s.db.SelectContext(ctx, &rows, query, repoFullName, limit); err != nil {
		return nil, fmt.Errorf("failed to list reviews for %s: %w", repoFullName, err)
	}

	records := make([]*core.ReviewRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.record())
	}
	return records, nil
}
