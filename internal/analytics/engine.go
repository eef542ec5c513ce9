// Package analytics computes the risk views over stored simulation events.
package analytics

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/garnizeh/riskmap/internal/config"
	"github.com/garnizeh/riskmap/pkg/repository"
)

// Engine computes views on demand. It holds no state between calls.
type Engine struct {
	repo   repository.AggregateRepo
	cfg    config.AnalyticsConfig
	logger *slog.Logger
}

func New(repo repository.AggregateRepo, cfg config.AnalyticsConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{repo: repo, cfg: cfg, logger: logger}
}

// byRateDesc orders rows by rate descending. The sort is stable so rows with
// equal rates keep the ascending key order the store returned them in.
func byRateDesc[T any](rows []T, rate func(T) float64) {
	slices.SortStableFunc(rows, func(a, b T) int {
		return cmp.Compare(rate(b), rate(a))
	})
}

func limit[T any](rows []T, n int) []T {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

func (e *Engine) Summary(ctx context.Context) (Summary, error) {
	s, err := e.repo.Summary(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalEmployees: s.TotalEmployees,
		TotalEvents:    s.Total,
		Clicks:         s.Clicks,
		Credentials:    s.Credentials,
		ClickRate:      Rate(s.Clicks, s.Total),
		CredentialRate: Rate(s.Credentials, s.Total),
	}, nil
}

// TimePatterns groups events by hour and weekday. Groups smaller than the
// configured minimum sample are left out however high their rate.
func (e *Engine) TimePatterns(ctx context.Context) ([]TimePatternRow, error) {
	buckets, err := e.repo.TimeBuckets(ctx, e.cfg.TimePatternMinSample)
	if err != nil {
		return nil, err
	}

	rows := make([]TimePatternRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, TimePatternRow{
			HourOfDay:      b.HourOfDay,
			DayOfWeek:      b.DayOfWeek,
			Total:          b.Total,
			Clicks:         b.Clicks,
			ClickRate:      Rate(b.Clicks, b.Total),
			Credentials:    b.Credentials,
			CredentialRate: Rate(b.Credentials, b.Total),
		})
	}
	byRateDesc(rows, func(r TimePatternRow) float64 { return r.ClickRate })
	return limit(rows, e.cfg.TimePatternLimit), nil
}

func (e *Engine) DeviceLocation(ctx context.Context) ([]DeviceLocationRow, error) {
	buckets, err := e.repo.DeviceLocationBuckets(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]DeviceLocationRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, DeviceLocationRow{
			DeviceType:     b.DeviceType,
			Location:       b.Location,
			Total:          b.Total,
			Clicks:         b.Clicks,
			ClickRate:      Rate(b.Clicks, b.Total),
			CredentialRate: Rate(b.Credentials, b.Total),
		})
	}
	byRateDesc(rows, func(r DeviceLocationRow) float64 { return r.ClickRate })
	return rows, nil
}

func (e *Engine) Departments(ctx context.Context) ([]DepartmentRow, error) {
	buckets, err := e.repo.DepartmentBuckets(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]DepartmentRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, DepartmentRow{
			Department:       b.Department,
			EmployeeCount:    b.EmployeeCount,
			Total:            b.Total,
			Clicks:           b.Clicks,
			ClickRate:        Rate(b.Clicks, b.Total),
			CredentialRate:   Rate(b.Credentials, b.Total),
			AvgTrainingScore: round1(b.AvgTrainingScore),
		})
	}
	byRateDesc(rows, func(r DepartmentRow) float64 { return r.ClickRate })
	return rows, nil
}

func (e *Engine) Combinations(ctx context.Context) ([]CombinationRow, error) {
	buckets, err := e.repo.CombinationBuckets(ctx, e.cfg.CombinationMinSample)
	if err != nil {
		return nil, err
	}

	rows := make([]CombinationRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, CombinationRow{
			HourOfDay:  b.HourOfDay,
			DayOfWeek:  b.DayOfWeek,
			DeviceType: b.DeviceType,
			Location:   b.Location,
			Total:      b.Total,
			ClickRate:  Rate(b.Clicks, b.Total),
		})
	}
	byRateDesc(rows, func(r CombinationRow) float64 { return r.ClickRate })
	return limit(rows, e.cfg.CombinationLimit), nil
}

// Employees profiles every employee who clicked at least once.
func (e *Engine) Employees(ctx context.Context) ([]EmployeeRow, error) {
	buckets, err := e.repo.EmployeeBuckets(ctx, 1)
	if err != nil {
		return nil, err
	}

	rows := make([]EmployeeRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, EmployeeRow{
			EmployeeCode:         b.Employee.Code,
			Department:           b.Employee.Department,
			TenureMonths:         b.Employee.TenureMonths,
			TrainingScore:        b.Employee.TrainingScore,
			Total:                b.Total,
			TimesClicked:         b.Clicks,
			PersonalClickRate:    Rate(b.Clicks, b.Total),
			TimesGaveCredentials: b.Credentials,
		})
	}
	byRateDesc(rows, func(r EmployeeRow) float64 { return r.PersonalClickRate })
	return limit(rows, e.cfg.EmployeeLimit), nil
}

// View returns the named view. The boolean is false for an unknown name.
func (e *Engine) View(ctx context.Context, name string) (any, bool, error) {
	var (
		rows any
		err  error
	)
	switch name {
	case ViewTimePatterns:
		rows, err = e.TimePatterns(ctx)
	case ViewDeviceLocation:
		rows, err = e.DeviceLocation(ctx)
	case ViewDepartments:
		rows, err = e.Departments(ctx)
	case ViewCombinations:
		rows, err = e.Combinations(ctx)
	case ViewEmployees:
		rows, err = e.Employees(ctx)
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, true, fmt.Errorf("view %s: %w", name, err)
	}
	return rows, true, nil
}

// Run computes the summary and every view.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	var (
		r   Report
		err error
	)
	if r.Summary, err = e.Summary(ctx); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	if r.TimePatterns, err = e.TimePatterns(ctx); err != nil {
		return nil, fmt.Errorf("time patterns: %w", err)
	}
	if r.DeviceLocation, err = e.DeviceLocation(ctx); err != nil {
		return nil, fmt.Errorf("device location: %w", err)
	}
	if r.Departments, err = e.Departments(ctx); err != nil {
		return nil, fmt.Errorf("departments: %w", err)
	}
	if r.Combinations, err = e.Combinations(ctx); err != nil {
		return nil, fmt.Errorf("combinations: %w", err)
	}
	if r.Employees, err = e.Employees(ctx); err != nil {
		return nil, fmt.Errorf("employees: %w", err)
	}

	e.logger.Debug("analysis complete",
		"events", r.Summary.TotalEvents,
		"time_patterns", len(r.TimePatterns),
		"departments", len(r.Departments),
	)
	return &r, nil
}
