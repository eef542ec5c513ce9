package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/riskmap/pkg/models"
	"github.com/garnizeh/riskmap/pkg/repository"
)

const insertEmployee = `INSERT INTO employees (employee_code, department, tenure_months, security_training_score)
	VALUES (?, ?, ?, ?) ON CONFLICT(employee_code) DO NOTHING`

// CreateEmployee inserts a new employee and fails with ErrDuplicateKey when
// the code is already taken.
func (r *SQLiteRepo) CreateEmployee(ctx context.Context, e *models.Employee) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("employee is nil")
	}

	res, err := r.conn.Exec(ctx, insertEmployee, e.Code, e.Department, e.TenureMonths, e.TrainingScore)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("create employee %q: %w", e.Code, repository.ErrDuplicateKey)
	}

	return res.LastInsertId()
}

// InsertEmployeeIgnore inserts e unless its code exists already; the boolean
// reports whether a row was written.
func (r *SQLiteRepo) InsertEmployeeIgnore(ctx context.Context, e *models.Employee) (bool, error) {
	if e == nil {
		return false, fmt.Errorf("employee is nil")
	}

	res, err := r.conn.Exec(ctx, insertEmployee, e.Code, e.Department, e.TenureMonths, e.TrainingScore)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertEmployees writes es in one transaction and returns their IDs in input
// order. Any duplicate code aborts the whole batch.
func (r *SQLiteRepo) InsertEmployees(ctx context.Context, es []models.Employee) ([]int64, error) {
	ids := make([]int64, 0, len(es))
	err := r.conn.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertEmployee)
		if err != nil {
			return fmt.Errorf("prepare insert employee: %w", err)
		}
		defer stmt.Close()

		for i := range es {
			e := &es[i]
			res, err := stmt.ExecContext(ctx, e.Code, e.Department, e.TenureMonths, e.TrainingScore)
			if err != nil {
				return fmt.Errorf("insert employee %q: %w", e.Code, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("insert employee %q: %w", e.Code, repository.ErrDuplicateKey)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			e.ID = id
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// FindEmployeeByCode resolves a natural key to its employee ID.
func (r *SQLiteRepo) FindEmployeeByCode(ctx context.Context, code string) (int64, bool, error) {
	var id int64
	err := r.conn.QueryRow(ctx, `SELECT employee_id FROM employees WHERE employee_code = ?`, code).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

const employeeColumns = `employee_id, employee_code, department, tenure_months, security_training_score`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s rowScanner) (models.Employee, error) {
	var (
		e      models.Employee
		tenure sql.NullInt64
		score  sql.NullFloat64
	)
	if err := s.Scan(&e.ID, &e.Code, &e.Department, &tenure, &score); err != nil {
		return e, err
	}
	if tenure.Valid {
		e.TenureMonths = int(tenure.Int64)
	}
	if score.Valid {
		e.TrainingScore = score.Float64
	}
	return e, nil
}

// GetEmployee returns (nil, nil) when no employee has the given ID.
func (r *SQLiteRepo) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	e, err := scanEmployee(r.conn.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE employee_id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &e, nil
}

// ListEmployees returns employees newest first.
func (r *SQLiteRepo) ListEmployees(ctx context.Context, limit, offset int) ([]models.Employee, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY employee_id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountEmployees(ctx context.Context) (int64, error) {
	var cnt int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}
