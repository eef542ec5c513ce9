package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/riskmap/pkg/models"
)

var (
	clickSum = boolSum("clicked_link")
	credSum  = boolSum("provided_credentials")
)

// Summary returns store-wide totals.
func (r *SQLiteRepo) Summary(ctx context.Context) (models.Summary, error) {
	var s models.Summary
	row := r.conn.QueryRow(ctx, `SELECT (SELECT COUNT(*) FROM employees), COUNT(*), `+clickSum+`, `+credSum+` FROM phishing_simulations`)
	if err := row.Scan(&s.TotalEmployees, &s.Total, &s.Clicks, &s.Credentials); err != nil {
		return s, fmt.Errorf("summary: %w", err)
	}
	return s, nil
}

// TimeBuckets groups events by (hour, day) keeping groups with at least
// minSample events.
func (r *SQLiteRepo) TimeBuckets(ctx context.Context, minSample int) ([]models.TimeBucket, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT hour_of_day, day_of_week, COUNT(*), `+clickSum+`, `+credSum+`
		FROM phishing_simulations
		GROUP BY hour_of_day, day_of_week
		HAVING COUNT(*) >= ?
		ORDER BY hour_of_day, `+dayOrder, minSample)
	if err != nil {
		return nil, fmt.Errorf("time buckets: %w", err)
	}
	defer rows.Close()

	var out []models.TimeBucket
	for rows.Next() {
		var b models.TimeBucket
		if err := rows.Scan(&b.HourOfDay, &b.DayOfWeek, &b.Total, &b.Clicks, &b.Credentials); err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, rows.Err()
}

// DeviceLocationBuckets groups events by (device, location) without suppression.
func (r *SQLiteRepo) DeviceLocationBuckets(ctx context.Context) ([]models.DeviceLocationBucket, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT device_type, location, COUNT(*), `+clickSum+`, `+credSum+`
		FROM phishing_simulations
		GROUP BY device_type, location
		ORDER BY device_type, location`)
	if err != nil {
		return nil, fmt.Errorf("device buckets: %w", err)
	}
	defer rows.Close()

	var out []models.DeviceLocationBucket
	for rows.Next() {
		var b models.DeviceLocationBucket
		if err := rows.Scan(&b.DeviceType, &b.Location, &b.Total, &b.Clicks, &b.Credentials); err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, rows.Err()
}

// DepartmentBuckets joins employees to their events. Departments without
// events do not appear. The training score average is taken over the
// department's distinct employees that have events, not over event rows,
// so it differs from an event-weighted average when employees have
// unequal event counts.
func (r *SQLiteRepo) DepartmentBuckets(ctx context.Context) ([]models.DepartmentBucket, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT e.department,
			COUNT(DISTINCT e.employee_id),
			COUNT(ps.simulation_id),
			COALESCE(SUM(CASE WHEN ps.clicked_link THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN ps.provided_credentials THEN 1 ELSE 0 END), 0),
			(SELECT AVG(e2.security_training_score) FROM employees e2
				WHERE e2.department = e.department
				AND EXISTS (SELECT 1 FROM phishing_simulations p2 WHERE p2.employee_id = e2.employee_id))
		FROM employees e
		JOIN phishing_simulations ps ON e.employee_id = ps.employee_id
		GROUP BY e.department
		ORDER BY e.department`)
	if err != nil {
		return nil, fmt.Errorf("department buckets: %w", err)
	}
	defer rows.Close()

	var out []models.DepartmentBucket
	for rows.Next() {
		var (
			b   models.DepartmentBucket
			avg sql.NullFloat64
		)
		if err := rows.Scan(&b.Department, &b.EmployeeCount, &b.Total, &b.Clicks, &b.Credentials, &avg); err != nil {
			return nil, err
		}
		if avg.Valid {
			b.AvgTrainingScore = avg.Float64
		}
		out = append(out, b)
	}

	return out, rows.Err()
}

// CombinationBuckets groups by (hour, day, device, location) keeping groups
// with at least minSample events.
func (r *SQLiteRepo) CombinationBuckets(ctx context.Context, minSample int) ([]models.CombinationBucket, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT hour_of_day, day_of_week, device_type, location, COUNT(*), `+clickSum+`, `+credSum+`
		FROM phishing_simulations
		GROUP BY hour_of_day, day_of_week, device_type, location
		HAVING COUNT(*) >= ?
		ORDER BY hour_of_day, `+dayOrder+`, device_type, location`, minSample)
	if err != nil {
		return nil, fmt.Errorf("combination buckets: %w", err)
	}
	defer rows.Close()

	var out []models.CombinationBucket
	for rows.Next() {
		var b models.CombinationBucket
		if err := rows.Scan(&b.HourOfDay, &b.DayOfWeek, &b.DeviceType, &b.Location, &b.Total, &b.Clicks, &b.Credentials); err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, rows.Err()
}

// EmployeeBuckets tallies events per employee, keeping those with at least
// minClicks clicks.
func (r *SQLiteRepo) EmployeeBuckets(ctx context.Context, minClicks int) ([]models.EmployeeBucket, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT e.employee_id, e.employee_code, e.department, e.tenure_months, e.security_training_score,
			COUNT(ps.simulation_id),
			COALESCE(SUM(CASE WHEN ps.clicked_link THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN ps.provided_credentials THEN 1 ELSE 0 END), 0)
		FROM employees e
		JOIN phishing_simulations ps ON e.employee_id = ps.employee_id
		GROUP BY e.employee_id
		HAVING COALESCE(SUM(CASE WHEN ps.clicked_link THEN 1 ELSE 0 END), 0) >= ?
		ORDER BY e.employee_id`, minClicks)
	if err != nil {
		return nil, fmt.Errorf("employee buckets: %w", err)
	}
	defer rows.Close()

	var out []models.EmployeeBucket
	for rows.Next() {
		var (
			b      models.EmployeeBucket
			tenure sql.NullInt64
			score  sql.NullFloat64
		)
		if err := rows.Scan(&b.Employee.ID, &b.Employee.Code, &b.Employee.Department, &tenure, &score,
			&b.Total, &b.Clicks, &b.Credentials); err != nil {
			return nil, err
		}
		if tenure.Valid {
			b.Employee.TenureMonths = int(tenure.Int64)
		}
		if score.Valid {
			b.Employee.TrainingScore = score.Float64
		}
		out = append(out, b)
	}

	return out, rows.Err()
}
