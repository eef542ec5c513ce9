package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/riskmap/pkg/models"
)

func (r *SQLiteRepo) CreateImportRun(ctx context.Context, run *models.ImportRun) error {
	if run == nil {
		return fmt.Errorf("import run is nil")
	}
	if run.Created == 0 {
		run.Created = now()
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO import_runs (run_id, kind, source, imported, skipped, coerced, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Kind, run.Source, run.Imported, run.Skipped, run.Coerced, run.Created)
	return err
}

// ListImportRuns returns the most recent runs first.
func (r *SQLiteRepo) ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT run_id, kind, source, imported, skipped, coerced, created FROM import_runs ORDER BY created DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ImportRun
	for rows.Next() {
		var run models.ImportRun
		if err := rows.Scan(&run.RunID, &run.Kind, &run.Source, &run.Imported, &run.Skipped, &run.Coerced, &run.Created); err != nil {
			return nil, err
		}
		out = append(out, run)
	}

	return out, rows.Err()
}
