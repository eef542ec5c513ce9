package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/riskmap/pkg/models"
)

var (
	// ErrDuplicateKey is returned when an employee code already exists.
	ErrDuplicateKey = errors.New("repository: duplicate employee code")
	// ErrUnknownEmployee is returned when an event references a missing employee.
	ErrUnknownEmployee = errors.New("repository: unknown employee")
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type EmployeeRepo interface {
	CreateEmployee(ctx context.Context, e *models.Employee) (int64, error)
	InsertEmployeeIgnore(ctx context.Context, e *models.Employee) (bool, error)
	InsertEmployees(ctx context.Context, es []models.Employee) ([]int64, error)
	FindEmployeeByCode(ctx context.Context, code string) (int64, bool, error)
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	ListEmployees(ctx context.Context, limit, offset int) ([]models.Employee, error)
	CountEmployees(ctx context.Context) (int64, error)
}

type EventRepo interface {
	AppendEvent(ctx context.Context, ev *models.SimulationEvent) (int64, error)
	AppendEvents(ctx context.Context, evs []models.SimulationEvent) error
	ListEvents(ctx context.Context, limit, offset int) ([]models.SimulationEvent, error)
	CountEvents(ctx context.Context) (int64, error)
}

type StoreRepo interface {
	EmployeeRepo
	EventRepo
	Reset(ctx context.Context) error
}

type ImportRunRepo interface {
	CreateImportRun(ctx context.Context, run *models.ImportRun) error
	ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error)
}

// AggregateRepo exposes the grouped tallies behind the analytical views.
// Buckets are returned in ascending key order; rates are left to callers.
type AggregateRepo interface {
	Summary(ctx context.Context) (models.Summary, error)
	TimeBuckets(ctx context.Context, minSample int) ([]models.TimeBucket, error)
	DeviceLocationBuckets(ctx context.Context) ([]models.DeviceLocationBucket, error)
	DepartmentBuckets(ctx context.Context) ([]models.DepartmentBucket, error)
	CombinationBuckets(ctx context.Context, minSample int) ([]models.CombinationBucket, error)
	EmployeeBuckets(ctx context.Context, minClicks int) ([]models.EmployeeBucket, error)
}
