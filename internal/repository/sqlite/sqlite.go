package sqlite

import (
	"time"

	"log/slog"

	"github.com/garnizeh/riskmap/internal/db"
	"github.com/garnizeh/riskmap/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.StoreRepo = (*SQLiteRepo)(nil)
var _ repository.ImportRunRepo = (*SQLiteRepo)(nil)
var _ repository.AggregateRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// boolSum counts rows where the given boolean column is set.
func boolSum(col string) string {
	return "COALESCE(SUM(CASE WHEN " + col + " THEN 1 ELSE 0 END), 0)"
}

// dayOrder sorts day names Monday first instead of alphabetically.
const dayOrder = `CASE day_of_week
	WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3
	WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 WHEN 'Saturday' THEN 6
	WHEN 'Sunday' THEN 7 ELSE 8 END`
