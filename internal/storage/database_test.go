package storage

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/codewise/internal/core"
)

func TestReviewRowMapping(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("with pull request", func(t *testing.T) {
		rec := &core.ReviewRecord{
			RepoFullName:  "octo/demo",
			FilePath:      "src/a.py",
			Language:      core.Spanish,
			ArtifactPath:  "output/a.py_es_review.md",
			PRNumber:      42,
			ReviewContent: "bien",
			CreatedAt:     created,
		}
		row := toRow(rec)
		assert.Equal(t, "es", row.Language)
		assert.Equal(t, sql.NullInt64{Int64: 42, Valid: true}, row.PRNumber)
		assert.Equal(t, rec, row.record())
	})

	t.Run("unpublished review stores null", func(t *testing.T) {
		row := toRow(&core.ReviewRecord{FilePath: "a.py", Language: core.English})
		assert.False(t, row.PRNumber.Valid)
		assert.False(t, row.CreatedAt.IsZero())
		assert.Equal(t, 0, row.record().PRNumber)
	})

	t.Run("unknown language falls back to english", func(t *testing.T) {
		row := reviewRow{Language: "fr", CreatedAt: created}
		assert.Equal(t, core.English, row.record().Language)
	})
}
