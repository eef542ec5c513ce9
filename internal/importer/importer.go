// Package importer reconciles externally supplied CSV records of employees and
// simulation outcomes into the store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/google/uuid"

	dbfs "github.com/garnizeh/riskmap/db"
	"github.com/garnizeh/riskmap/pkg/models"
	"github.com/garnizeh/riskmap/pkg/repository"
)

const (
	KindEmployees = "employees"
	KindEvents    = "events"
)

var (
	employeeColumns = []string{"employee_code", "department"}
	eventColumns    = []string{"employee_code", "timestamp", "device_type", "location", "clicked_link"}
)

// Result summarizes one import. Imported counts rows written; every other
// data row is listed in Skips.
type Result struct {
	RunID    string     `json:"run_id"`
	Kind     string     `json:"kind"`
	Source   string     `json:"source"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Coerced  int        `json:"coerced"`
	Skips    []RowIssue `json:"skips"`
}

func (r *Result) skip(line int, reason SkipReason, detail string) {
	r.Skipped++
	r.Skips = append(r.Skips, RowIssue{Line: line, Reason: reason, Detail: detail})
}

type Reconciler struct {
	employees repository.EmployeeRepo
	events    repository.EventRepo
	runs      repository.ImportRunRepo
	logger    *slog.Logger
}

func New(employees repository.EmployeeRepo, events repository.EventRepo, runs repository.ImportRunRepo, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{employees: employees, events: events, runs: runs, logger: logger}
}

// ImportEmployees inserts each row of src as an employee. Codes that already
// exist are skipped and the stored record is left untouched.
func (r *Reconciler) ImportEmployees(ctx context.Context, src io.Reader, source string) (*Result, error) {
	t, err := openTable(src, KindEmployees, employeeColumns)
	if err != nil {
		return nil, err
	}

	res := r.newResult(KindEmployees, source)
	for rec, err := range t.rows() {
		if err != nil {
			if rec.line == 0 {
				return nil, fmt.Errorf("read employees: %w", err)
			}
			res.skip(rec.line, SkipParseError, err.Error())
			continue
		}

		e, issue := employeeFromRecord(rec)
		if issue != nil {
			res.skip(issue.Line, issue.Reason, issue.Detail)
			continue
		}

		inserted, err := r.employees.InsertEmployeeIgnore(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("import employee %q at line %d: %w", e.Code, rec.line, err)
		}
		if !inserted {
			res.skip(rec.line, SkipDuplicate, e.Code)
			continue
		}
		res.Imported++
	}

	r.finish(ctx, res)
	return res, nil
}

func employeeFromRecord(rec record) (*models.Employee, *RowIssue) {
	e := &models.Employee{
		Code:          rec.get("employee_code"),
		Department:    rec.get("department"),
		TenureMonths:  models.DefaultTenureMonths,
		TrainingScore: models.DefaultTrainingScore,
	}
	if e.Code == "" {
		return nil, &RowIssue{Line: rec.line, Reason: SkipMissingValue, Detail: "employee_code"}
	}
	if e.Department == "" {
		return nil, &RowIssue{Line: rec.line, Reason: SkipMissingValue, Detail: "department"}
	}

	if v := rec.get("tenure_months"); v != "" {
		n, err := parseCount("tenure_months", v)
		if err != nil {
			return nil, &RowIssue{Line: rec.line, Reason: SkipParseError, Detail: err.Error()}
		}
		e.TenureMonths = n
	}
	if v := rec.get("security_training_score"); v != "" {
		f, err := parseScore(v)
		if err != nil {
			return nil, &RowIssue{Line: rec.line, Reason: SkipParseError, Detail: err.Error()}
		}
		e.TrainingScore = f
	}
	return e, nil
}

// ImportEvents appends each row of src as a simulation event. Rows whose
// employee_code does not resolve are skipped. A row that reports credentials
// without a click is stored as clicked and counted in Coerced.
func (r *Reconciler) ImportEvents(ctx context.Context, src io.Reader, source string) (*Result, error) {
	t, err := openTable(src, KindEvents, eventColumns)
	if err != nil {
		return nil, err
	}

	res := r.newResult(KindEvents, source)
	ids := make(map[string]int64)
	for rec, err := range t.rows() {
		if err != nil {
			if rec.line == 0 {
				return nil, fmt.Errorf("read events: %w", err)
			}
			res.skip(rec.line, SkipParseError, err.Error())
			continue
		}

		ev, issue := eventFromRecord(rec)
		if issue != nil {
			res.skip(issue.Line, issue.Reason, issue.Detail)
			continue
		}

		code := rec.get("employee_code")
		id, ok := ids[code]
		if !ok {
			id, ok, err = r.employees.FindEmployeeByCode(ctx, code)
			if err != nil {
				return nil, fmt.Errorf("resolve employee %q at line %d: %w", code, rec.line, err)
			}
			if !ok {
				res.skip(rec.line, SkipUnknownEmployee, code)
				continue
			}
			ids[code] = id
		}
		ev.EmployeeID = id

		if ev.ProvidedCredentials && !ev.ClickedLink {
			ev.ClickedLink = true
			res.Coerced++
			r.logger.Warn("credentials without click, storing as clicked", "source", source, "line", rec.line, "employee_code", code)
		}

		if _, err := r.events.AppendEvent(ctx, ev); err != nil {
			if errors.Is(err, repository.ErrUnknownEmployee) {
				delete(ids, code)
				res.skip(rec.line, SkipUnknownEmployee, code)
				continue
			}
			return nil, fmt.Errorf("import event at line %d: %w", rec.line, err)
		}
		res.Imported++
	}

	r.finish(ctx, res)
	return res, nil
}

func eventFromRecord(rec record) (*models.SimulationEvent, *RowIssue) {
	for _, c := range []string{"employee_code", "timestamp", "device_type", "location"} {
		if rec.get(c) == "" {
			return nil, &RowIssue{Line: rec.line, Reason: SkipMissingValue, Detail: c}
		}
	}

	ts, err := parseTimestamp(rec.get("timestamp"))
	if err != nil {
		return nil, &RowIssue{Line: rec.line, Reason: SkipParseError, Detail: err.Error()}
	}

	ev := &models.SimulationEvent{
		Timestamp:           ts,
		DeviceType:          rec.get("device_type"),
		Location:            rec.get("location"),
		ClickedLink:         parseBool(rec.get("clicked_link")),
		ProvidedCredentials: parseBool(rec.get("provided_credentials")),
	}

	if v := rec.get("time_to_click_seconds"); v != "" {
		n, err := parseCount("time_to_click_seconds", v)
		if err != nil {
			return nil, &RowIssue{Line: rec.line, Reason: SkipParseError, Detail: err.Error()}
		}
		ev.TimeToClickSeconds = &n
	}
	return ev, nil
}

func (r *Reconciler) newResult(kind, source string) *Result {
	if source == "" {
		source = "upload"
	}
	return &Result{RunID: uuid.NewString(), Kind: kind, Source: source, Skips: []RowIssue{}}
}

// finish records the run. The rows are already committed, so a failure to
// write the audit entry is logged rather than returned.
func (r *Reconciler) finish(ctx context.Context, res *Result) {
	run := &models.ImportRun{
		RunID:    res.RunID,
		Kind:     res.Kind,
		Source:   res.Source,
		Imported: res.Imported,
		Skipped:  res.Skipped,
		Coerced:  res.Coerced,
	}
	if r.runs != nil {
		if err := r.runs.CreateImportRun(ctx, run); err != nil {
			r.logger.Error("failed to record import run", "run_id", res.RunID, "error", err)
		}
	}

	r.logger.Info("import finished",
		"run_id", res.RunID,
		"kind", res.Kind,
		"source", res.Source,
		"imported", res.Imported,
		"skipped", res.Skipped,
		"coerced", res.Coerced,
	)
}

var templateFiles = map[string]string{
	KindEmployees: "seed/employee_template.csv",
	KindEvents:    "seed/simulation_template.csv",
}

// ErrUnknownTemplate is returned by Template for names other than
// "employees" and "events".
var ErrUnknownTemplate = errors.New("importer: unknown template")

// Template returns the example CSV for the given import kind.
func Template(kind string) ([]byte, error) {
	path, ok := templateFiles[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownTemplate)
	}
	return fs.ReadFile(dbfs.SeedFiles, path)
}
