package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garnizeh/riskmap/pkg/models"
	"github.com/garnizeh/riskmap/pkg/repository"
)

// Events are only inserted when the referenced employee exists; a zero
// rows-affected result therefore means the reference did not resolve.
const insertEvent = `INSERT INTO phishing_simulations
	(employee_id, timestamp, day_of_week, hour_of_day, device_type, location,
	 clicked_link, provided_credentials, time_to_click_seconds)
	SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?
	WHERE EXISTS (SELECT 1 FROM employees WHERE employee_id = ?)`

// eventArgs derives day_of_week and hour_of_day from the timestamp, ignoring
// whatever the caller put in those fields, and writes them back onto ev.
func eventArgs(ev *models.SimulationEvent) []any {
	ev.DayOfWeek = ev.Timestamp.Weekday().String()
	ev.HourOfDay = ev.Timestamp.Hour()

	var ttc any
	if ev.TimeToClickSeconds != nil {
		ttc = int64(*ev.TimeToClickSeconds)
	}

	return []any{
		ev.EmployeeID, ev.Timestamp.Format(models.TimestampLayout), ev.DayOfWeek, ev.HourOfDay,
		ev.DeviceType, ev.Location, ev.ClickedLink, ev.ProvidedCredentials, ttc, ev.EmployeeID,
	}
}

// AppendEvent stores one event and fails with ErrUnknownEmployee when the
// employee does not exist.
func (r *SQLiteRepo) AppendEvent(ctx context.Context, ev *models.SimulationEvent) (int64, error) {
	if ev == nil {
		return 0, fmt.Errorf("event is nil")
	}

	res, err := r.conn.Exec(ctx, insertEvent, eventArgs(ev)...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("append event for employee %d: %w", ev.EmployeeID, repository.ErrUnknownEmployee)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	ev.ID = id
	return id, nil
}

// AppendEvents stores evs in a single transaction; one unresolved employee
// reference rolls the whole batch back.
func (r *SQLiteRepo) AppendEvents(ctx context.Context, evs []models.SimulationEvent) error {
	return r.conn.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertEvent)
		if err != nil {
			return fmt.Errorf("prepare insert event: %w", err)
		}
		defer stmt.Close()

		for i := range evs {
			ev := &evs[i]
			res, err := stmt.ExecContext(ctx, eventArgs(ev)...)
			if err != nil {
				return fmt.Errorf("insert event %d: %w", i, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("insert event %d for employee %d: %w", i, ev.EmployeeID, repository.ErrUnknownEmployee)
			}
			if ev.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListEvents returns events in insertion order.
func (r *SQLiteRepo) ListEvents(ctx context.Context, limit, offset int) ([]models.SimulationEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	// strftime yields untyped text so the driver does not reinterpret the column.
	rows, err := r.conn.QueryRows(ctx, `SELECT simulation_id, employee_id, strftime('%Y-%m-%d %H:%M:%S', timestamp),
		day_of_week, hour_of_day, device_type, location, clicked_link, provided_credentials, time_to_click_seconds
		FROM phishing_simulations ORDER BY simulation_id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SimulationEvent
	for rows.Next() {
		var (
			ev  models.SimulationEvent
			ts  string
			ttc sql.NullInt64
		)
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ts, &ev.DayOfWeek, &ev.HourOfDay, &ev.DeviceType,
			&ev.Location, &ev.ClickedLink, &ev.ProvidedCredentials, &ttc); err != nil {
			return nil, err
		}
		if ev.Timestamp, err = time.ParseInLocation(models.TimestampLayout, ts, time.UTC); err != nil {
			return nil, fmt.Errorf("parse stored timestamp %q: %w", ts, err)
		}
		if ttc.Valid {
			v := int(ttc.Int64)
			ev.TimeToClickSeconds = &v
		}

		out = append(out, ev)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountEvents(ctx context.Context) (int64, error) {
	var cnt int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM phishing_simulations`).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

// Reset removes every event and employee in one transaction. Import runs are
// kept as an audit trail.
func (r *SQLiteRepo) Reset(ctx context.Context) error {
	err := r.conn.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM phishing_simulations`); err != nil {
			return fmt.Errorf("clear simulations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM employees`); err != nil {
			return fmt.Errorf("clear employees: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("store reset")
	return nil
}
