package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/garnizeh/riskmap/pkg/models"
	"github.com/garnizeh/riskmap/pkg/repository"
)

// Store is an in-memory stand-in for the store contracts used in handler
// tests. When Err is set every call fails with it. Aggregates report the
// store-wide summary only; bucket queries return no groups.
type Store struct {
	mu        sync.Mutex
	Employees []models.Employee
	Events    []models.SimulationEvent
	Runs      []models.ImportRun
	Err       error
	Resets    int
}

var (
	_ repository.StoreRepo     = (*Store)(nil)
	_ repository.ImportRunRepo = (*Store)(nil)
	_ repository.AggregateRepo = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{}
}

func (m *Store) codeTaken(code string) bool {
	for _, e := range m.Employees {
		if e.Code == code {
			return true
		}
	}
	return false
}

func (m *Store) add(e models.Employee) int64 {
	e.ID = int64(len(m.Employees) + 1)
	m.Employees = append(m.Employees, e)
	return e.ID
}

func (m *Store) CreateEmployee(ctx context.Context, e *models.Employee) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	if m.codeTaken(e.Code) {
		return 0, fmt.Errorf("create employee %q: %w", e.Code, repository.ErrDuplicateKey)
	}
	return m.add(*e), nil
}

func (m *Store) InsertEmployeeIgnore(ctx context.Context, e *models.Employee) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if m.codeTaken(e.Code) {
		return false, nil
	}
	m.add(*e)
	return true, nil
}

func (m *Store) InsertEmployees(ctx context.Context, es []models.Employee) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	ids := make([]int64, 0, len(es))
	for i := range es {
		if m.codeTaken(es[i].Code) {
			return nil, fmt.Errorf("insert employee %q: %w", es[i].Code, repository.ErrDuplicateKey)
		}
		es[i].ID = m.add(es[i])
		ids = append(ids, es[i].ID)
	}
	return ids, nil
}

func (m *Store) FindEmployeeByCode(ctx context.Context, code string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, false, m.Err
	}
	for _, e := range m.Employees {
		if e.Code == code {
			return e.ID, true, nil
		}
	}
	return 0, false, nil
}

func (m *Store) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, e := range m.Employees {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

func (m *Store) ListEmployees(ctx context.Context, limit, offset int) ([]models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return page(m.Employees, limit, offset), nil
}

func (m *Store) CountEmployees(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.Employees)), nil
}

func (m *Store) appendEvent(ev models.SimulationEvent) (int64, error) {
	found := false
	for _, e := range m.Employees {
		if e.ID == ev.EmployeeID {
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("employee %d: %w", ev.EmployeeID, repository.ErrUnknownEmployee)
	}
	ev.ID = int64(len(m.Events) + 1)
	ev.DayOfWeek = ev.Timestamp.Weekday().String()
	ev.HourOfDay = ev.Timestamp.Hour()
	m.Events = append(m.Events, ev)
	return ev.ID, nil
}

func (m *Store) AppendEvent(ctx context.Context, ev *models.SimulationEvent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return m.appendEvent(*ev)
}

func (m *Store) AppendEvents(ctx context.Context, evs []models.SimulationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, ev := range evs {
		if _, err := m.appendEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *Store) ListEvents(ctx context.Context, limit, offset int) ([]models.SimulationEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return page(m.Events, limit, offset), nil
}

func (m *Store) CountEvents(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.Events)), nil
}

func (m *Store) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Employees, m.Events = nil, nil
	m.Resets++
	return nil
}

func (m *Store) CreateImportRun(ctx context.Context, run *models.ImportRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, *run)
	return nil
}

func (m *Store) ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return page(m.Runs, limit, 0), nil
}

func (m *Store) Summary(ctx context.Context) (models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Summary{}, m.Err
	}
	s := models.Summary{TotalEmployees: int64(len(m.Employees))}
	for _, ev := range m.Events {
		s.Total++
		if ev.ClickedLink {
			s.Clicks++
		}
		if ev.ProvidedCredentials {
			s.Credentials++
		}
	}
	return s, nil
}

func (m *Store) TimeBuckets(ctx context.Context, minSample int) ([]models.TimeBucket, error) {
	return nil, m.err()
}

func (m *Store) DeviceLocationBuckets(ctx context.Context) ([]models.DeviceLocationBucket, error) {
	return nil, m.err()
}

func (m *Store) DepartmentBuckets(ctx context.Context) ([]models.DepartmentBucket, error) {
	return nil, m.err()
}

func (m *Store) CombinationBuckets(ctx context.Context, minSample int) ([]models.CombinationBucket, error) {
	return nil, m.err()
}

func (m *Store) EmployeeBuckets(ctx context.Context, minClicks int) ([]models.EmployeeBucket, error) {
	return nil, m.err()
}

func (m *Store) err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append([]T(nil), items...)
}
